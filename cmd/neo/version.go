package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

// version is the driver's own release string; the execution core it
// wraps has no version of its own (spec.md names no versioning
// scheme for the bytecode format beyond the single mode-1 layout).
const version = "0.1.0"

type versionCmd struct{}

func (*versionCmd) Name() string     { return "version" }
func (*versionCmd) Synopsis() string { return "print the neo driver's version" }
func (*versionCmd) Usage() string    { return "version:\n  Print the version string.\n" }
func (*versionCmd) SetFlags(*flag.FlagSet) {}

func (*versionCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	fmt.Printf("neo %s\n", version)
	return subcommands.ExitSuccess
}

const licenseText = `neo execution core

Permission is hereby granted, free of charge, to any person obtaining
a copy of this software and associated documentation files, to deal
in the software without restriction, including without limitation the
rights to use, copy, modify, merge, publish, distribute, sublicense,
and/or sell copies, subject to this notice being included in all
copies or substantial portions of the software.

The software is provided "as is", without warranty of any kind.
`

type licenseCmd struct{}

func (*licenseCmd) Name() string     { return "license" }
func (*licenseCmd) Synopsis() string { return "print the license text" }
func (*licenseCmd) Usage() string    { return "license:\n  Print the license text.\n" }
func (*licenseCmd) SetFlags(*flag.FlagSet) {}

func (*licenseCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	fmt.Print(licenseText)
	return subcommands.ExitSuccess
}
