package version

import "fmt"

const (
	Version = "v0.1.0"

	colorReset     = "\033[0m"
	colorCyanBold  = "\033[36;1m"
	colorWhiteBold = "\033[37;1m"
)

// asciiArtTpl returns the ASCII art of sweepbench.
func asciiArtTpl() string {
	asciiArt := `
                            __                  __  
  ______      _____  ___  / /_  ___  ____  _____/ /_ 
 / ___/ | /| / / _ \/ _ \/ __ \/ _ \/ __ \/ ___/ __ \
(__  )| |/ |/ /  __/  __/ /_/ /  __/ / / / /__/ / / /
/____/ |__/|__/\___/\___/_.___/\___/_/ /_/\___/_/ /_/ 
%s ` + Version

	asciiArt = asciiArt[1:]                          // This just removes the first newline character
	asciiArt = colorCyanBold + asciiArt + colorReset // Add color to the ASCII art

	return asciiArt
}

// SweepVersion returns the banner printed by sweepbench.
func SweepVersion() string {
	return fmt.Sprintf(asciiArtTpl(), colorWhiteBold+"Count-set benchmark sweep"+colorCyanBold)
}
