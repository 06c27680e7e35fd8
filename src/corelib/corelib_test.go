package corelib

import (
	"testing"

	"gaia/src/frontend"
	"gaia/src/ir"
)

func TestFilesParseCleanly(t *testing.T) {
	for _, f := range Files() {
		if _, err := frontend.ParseFile(f.Name, f.Source); err != nil {
			t.Errorf("%s: unexpected parse error: %s", f.Name, err)
		}
	}
}

func TestFilesCheckCleanly(t *testing.T) {
	c := ir.NewChecker(false)
	var parsed []*frontend.File
	for _, f := range Files() {
		pf, err := frontend.ParseFile(f.Name, f.Source)
		if err != nil {
			t.Fatalf("%s: unexpected parse error: %s", f.Name, err)
		}
		parsed = append(parsed, pf)
	}
	for _, pf := range parsed {
		if err := c.DeclareFile(pf); err != nil {
			t.Fatalf("declaring %s: %s", pf.Name, err)
		}
	}
	for _, pf := range parsed {
		if err := c.CheckTopLevel(pf); err != nil {
			t.Fatalf("checking %s: %s", pf.Name, err)
		}
	}
}
