package session

import (
	"testing"

	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/model"
)

func multiplatformSnapshot(primary model.Platform) Snapshot {
	return Snapshot{data: &setData{
		byPlatform: map[model.Platform]*Session{
			model.JVM:     {Platform: model.JVM},
			model.Android: {Platform: model.Android},
		},
		primary:       primary,
		hasPrimary:    true,
		multiplatform: true,
	}}
}

func TestRouteFileNonMultiplatformReturnsFalse(t *testing.T) {
	snap := Snapshot{data: &setData{byPlatform: map[model.Platform]*Session{}}}
	if _, ok := RouteFile("/repo/src/jvmMain/kotlin/Foo.kt", snap); ok {
		t.Error("RouteFile on a non-multiplatform snapshot returned ok=true")
	}
}

func TestRouteFileMatchesPlatformMarkers(t *testing.T) {
	snap := multiplatformSnapshot(model.JVM)
	cases := []struct {
		path string
		want string
	}{
		{"/repo/shared/src/jvmMain/kotlin/Foo.kt", "JVM"},
		{"/repo/shared/src/androidTest/kotlin/Foo.kt", "ANDROID"},
		{"/repo/shared/src/jsMain/kotlin/Foo.kt", "JS"},
		{"/repo/shared/src/iosMain/kotlin/Foo.kt", "NATIVE"},
		{`C:\repo\shared\src\nativeMain\kotlin\Foo.kt`, "NATIVE"},
	}
	for _, c := range cases {
		got, ok := RouteFile(c.path, snap)
		if !ok {
			t.Errorf("RouteFile(%q): ok=false, want true", c.path)
			continue
		}
		if got != c.want {
			t.Errorf("RouteFile(%q) = %q, want %q", c.path, got, c.want)
		}
	}
}

func TestRouteFileCommonSourceSetFallsBackToPrimary(t *testing.T) {
	snap := multiplatformSnapshot(model.Android)
	got, ok := RouteFile("/repo/shared/src/commonMain/kotlin/Foo.kt", snap)
	if !ok {
		t.Fatal("RouteFile on a commonMain file: ok=false")
	}
	if got != "ANDROID" {
		t.Errorf("RouteFile(commonMain) = %q, want ANDROID (the primary platform)", got)
	}
}

func TestRouteFileUnroutableReturnsFalse(t *testing.T) {
	snap := multiplatformSnapshot(model.JVM)
	if _, ok := RouteFile("/repo/build.gradle.kts", snap); ok {
		t.Error("RouteFile on an unroutable path returned ok=true")
	}
}
