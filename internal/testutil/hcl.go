package testutil

import (
	"testing"

	"github.com/vk/hbsbind/internal/app"
)

// RunProjectTest runs the application on a single project file with no
// interactive binding, exporting to the output writer.
func RunProjectTest(t *testing.T, projectHCL string, opts ...app.Option) *HarnessResult {
	t.Helper()
	return RunApp(t, map[string]string{"project.hcl": projectHCL}, app.Config{BindID: NoBind}, opts...)
}
