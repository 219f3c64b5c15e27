//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const sampleSongs = "testdata/sample-songs.yaml"

// Demo runs scan and resolve over the sample song file.
func Demo() error {
	mg.Deps(Build)
	bin := binDir + "/" + binName
	if err := sh.RunV(bin, "scan", "--input", sampleSongs); err != nil {
		return err
	}
	return sh.RunV(bin, "resolve", "--input", sampleSongs)
}

// DemoLibrary imports the sample songs into the library and scans it.
func DemoLibrary() error {
	mg.SerialDeps(Init, Build)
	bin := binDir + "/" + binName
	if err := sh.RunV(bin, "library", "import", sampleSongs); err != nil {
		return err
	}
	return sh.RunV(bin, "scan", "--similar-lyrics=false")
}
