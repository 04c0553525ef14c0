// Package banner renders the startup banner.
package banner

import "fmt"

const art = `
 ██████╗ █████╗ ███╗   ███╗██████╗  ██████╗
██╔════╝██╔══██╗████╗ ████║██╔══██╗██╔═══██╗
██║     ███████║██╔████╔██║██████╔╝██║   ██║
██║     ██╔══██║██║╚██╔╝██║██╔═══╝ ██║   ██║
╚██████╗██║  ██║██║ ╚═╝ ██║██║     ╚██████╔╝
 ╚═════╝╚═╝  ╚═╝╚═╝     ╚═╝╚═╝      ╚═════╝
`

// Banner returns the startup banner with the version line.
func Banner(version string) string {
	return fmt.Sprintf("%s        form field classifier %s\n\n", art, version)
}
