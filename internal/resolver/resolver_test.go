package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/model"
)

type fakeProvider struct {
	name      string
	candidate bool
	pm        *model.ProjectModel
	err       error
}

func (f *fakeProvider) Name() string                 { return f.name }
func (f *fakeProvider) IsCandidate(root string) bool { return f.candidate }
func (f *fakeProvider) Resolve(ctx context.Context, root, variant string) (*model.ProjectModel, error) {
	return f.pm, f.err
}

func mustModel(t *testing.T, name string) *model.ProjectModel {
	t.Helper()
	pm, err := model.NewProjectModel("", "debug", []model.Module{{Name: name}})
	if err != nil {
		t.Fatal(err)
	}
	return pm
}

func TestResolveUsesFirstCandidateProvider(t *testing.T) {
	want := mustModel(t, "gradle-module")
	providers := []Provider{
		&fakeProvider{name: "gradle", candidate: true, pm: want},
	}
	r := New(providers, &fakeProvider{name: "source-only", candidate: true, pm: mustModel(t, "fallback")}, nil)

	got, err := r.Resolve(context.Background(), "/repo", "debug")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Modules[0].Name != "gradle-module" {
		t.Errorf("Modules[0].Name = %q, want gradle-module", got.Modules[0].Name)
	}
}

func TestResolveSkipsNonCandidateProviders(t *testing.T) {
	providers := []Provider{
		&fakeProvider{name: "gradle", candidate: false, pm: mustModel(t, "gradle-module")},
	}
	r := New(providers, &fakeProvider{name: "source-only", candidate: true, pm: mustModel(t, "fallback")}, nil)

	got, err := r.Resolve(context.Background(), "/repo", "debug")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Modules[0].Name != "fallback" {
		t.Errorf("Modules[0].Name = %q, want fallback (gradle wasn't a candidate)", got.Modules[0].Name)
	}
}

func TestResolveFallsBackOnProviderError(t *testing.T) {
	providers := []Provider{
		&fakeProvider{name: "gradle", candidate: true, err: errors.New("gradle daemon timed out")},
	}
	r := New(providers, &fakeProvider{name: "source-only", candidate: true, pm: mustModel(t, "fallback")}, nil)

	got, err := r.Resolve(context.Background(), "/repo", "debug")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Modules[0].Name != "fallback" {
		t.Errorf("Modules[0].Name = %q, want fallback after provider error", got.Modules[0].Name)
	}
}

func TestResolveFailureWhenSourceOnlyAlsoFails(t *testing.T) {
	r := New(nil, &fakeProvider{name: "source-only", candidate: true, err: errors.New("disk unreadable")}, nil)

	_, err := r.Resolve(context.Background(), "/repo", "debug")
	if err == nil {
		t.Fatal("expected an error when every provider fails, got nil")
	}
	var rf *ResolveFailure
	if !errors.As(err, &rf) {
		t.Errorf("error type = %T, want *ResolveFailure", err)
	}
}
