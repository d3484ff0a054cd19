// Command dploy deploys the contents of source directories into a
// destination directory using symlinks.
package main

import "github.com/joelvaneenwyk/stow-dploy/cmd"

func main() {
	cmd.Execute()
}
