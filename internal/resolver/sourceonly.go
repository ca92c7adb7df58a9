package resolver

import (
	"context"
	"os"
	"path/filepath"

	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/model"
)

// conventionalSourceDirs are the non-multiplatform source layout conventions
// named in spec §6.3.
var conventionalSourceDirs = []string{
	"src/main/kotlin",
	"src/main/java",
}

var conventionalTestDirs = []string{
	"src/test/kotlin",
	"src/test/java",
}

// SourceOnlyProvider scans conventional source directories on disk and produces
// a single Module with empty classpath (spec §4.1 step 2). It is always a
// candidate and never fails, making it the provider of last resort.
type SourceOnlyProvider struct{}

// NewSourceOnlyProvider builds the fallback provider.
func NewSourceOnlyProvider() *SourceOnlyProvider { return &SourceOnlyProvider{} }

func (p *SourceOnlyProvider) Name() string              { return "source-only" }
func (p *SourceOnlyProvider) IsCandidate(root string) bool { return true }

func (p *SourceOnlyProvider) Resolve(ctx context.Context, root, variant string) (*model.ProjectModel, error) {
	var srcs, tests []string
	for _, d := range conventionalSourceDirs {
		if dirExists(filepath.Join(root, d)) {
			srcs = append(srcs, filepath.Join(root, d))
		}
	}
	for _, d := range conventionalTestDirs {
		if dirExists(filepath.Join(root, d)) {
			tests = append(tests, filepath.Join(root, d))
		}
	}
	variantDir := filepath.Join(root, "src", variant, "kotlin")
	if dirExists(variantDir) {
		srcs = append(srcs, variantDir)
	}

	name := filepath.Base(root)
	if name == "" || name == "." {
		name = "source-only"
	}
	module := model.Module{
		Name:            name,
		SourceRoots:     srcs,
		TestSourceRoots: tests,
	}
	return model.NewProjectModel(root, variant, []model.Module{module})
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
