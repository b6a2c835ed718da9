package drift

import (
	"fmt"
	"os"

	"github.com/axelhelm/schemadrift/internal/errkind"
)

func readScript(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errkind.New(errkind.Configuration, "drift.readScript", fmt.Errorf("reading provisioning script %q: %w", path, err))
	}
	return string(data), nil
}
