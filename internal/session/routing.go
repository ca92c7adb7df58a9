package session

import "strings"

// platformMarkers lists the (substring, platform) pairs spec §6.3 and §8
// invariant 2 require: jvmMain/jvmTest -> JVM, androidMain/androidTest ->
// ANDROID, jsMain/jsTest and wasmJsMain/wasmJsTest -> JS, iosMain/iosTest and
// nativeMain/nativeTest -> NATIVE.
var platformMarkers = []struct {
	marker   string
	platform string
}{
	{"/jvmMain/", "JVM"},
	{"/jvmTest/", "JVM"},
	{"/androidMain/", "ANDROID"},
	{"/androidTest/", "ANDROID"},
	{"/jsMain/", "JS"},
	{"/jsTest/", "JS"},
	{"/wasmJsMain/", "JS"},
	{"/wasmJsTest/", "JS"},
	{"/iosMain/", "NATIVE"},
	{"/iosTest/", "NATIVE"},
	{"/nativeMain/", "NATIVE"},
	{"/nativeTest/", "NATIVE"},
	{"/macosMain/", "NATIVE"},
	{"/macosTest/", "NATIVE"},
}

const commonMarkerMain = "/commonMain/"
const commonMarkerTest = "/commonTest/"

// RouteFile implements platformForFile (spec §4.6, §6.3, §8 invariant 2): it
// returns the platform whose session should answer queries about path, or
// ok=false when the project is non-multiplatform (platformForFile returns null)
// or no session is routable.
func RouteFile(path string, snap Snapshot) (string, bool) {
	if !snap.IsMultiplatform() {
		return "", false
	}
	p := normalizeSlashes(path)
	for _, pc := range platformMarkers {
		if strings.Contains(p, pc.marker) {
			return pc.platform, true
		}
	}
	if strings.Contains(p, commonMarkerMain) || strings.Contains(p, commonMarkerTest) {
		if primary, ok := snap.Primary(); ok {
			return string(primary.Platform), true
		}
	}
	return "", false
}

func normalizeSlashes(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}
