/*
Command-line tool for applying compression and encryption enforcement objects.

Usage:

	$ enforce [<flags>] <subcommand> [<args> ...]

Use 'enforce help' to see more details.
*/
package main

import (
	"os"

	"github.com/alecthomas/kingpin/v2"

	"github.com/storagepath/enforce/cli"
	"github.com/storagepath/enforce/internal/logfile"
)

func main() {
	app := cli.NewApp()
	kp := kingpin.New("enforce", "Enforce - payload compression and encryption").Author("https://github.com/storagepath/enforce")

	logfile.Attach(app, kp)
	app.Attach(kp)

	kingpin.MustParse(kp.Parse(os.Args[1:]))
}
