// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/studiotools/stlaunch/cmd/stlaunch"

func main() {
	cmd.Execute()
}
