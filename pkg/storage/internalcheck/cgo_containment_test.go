package internalcheck

import (
	"fmt"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const bindingsPath = "github.com/nipsysdev/libstorage-go/internal/bindings"

// All cgo and unsafe usage must stay inside the bindings package so that the
// rest of the module remains portable Go.
func TestCgoConfinedToBindings(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedImports,
	}

	pkgs, err := packages.Load(cfg, "github.com/nipsysdev/libstorage-go/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}

	var findings []string

	for _, pkg := range pkgs {
		if pkg.PkgPath == bindingsPath {
			continue
		}
		for importPath := range pkg.Imports {
			if importPath == "unsafe" {
				findings = append(findings, fmt.Sprintf("%s imports unsafe", pkg.PkgPath))
			}
			if importPath == "runtime/cgo" {
				findings = append(findings, fmt.Sprintf("%s uses cgo", pkg.PkgPath))
			}
			if importPath == bindingsPath && pkg.PkgPath != "github.com/nipsysdev/libstorage-go/pkg/storage" {
				findings = append(findings, fmt.Sprintf("%s imports the bindings layer directly", pkg.PkgPath))
			}
		}
	}

	if len(findings) > 0 {
		t.Fatalf("cgo containment violation:\n%s", strings.Join(findings, "\n"))
	}
}
