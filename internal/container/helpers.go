package container

import (
	"context"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
)

// hostPort resolves the externally reachable host and mapped port for a
// container's natPort (e.g. "5432/tcp").
func hostPort(ctx context.Context, c testcontainers.Container, natPort string) (string, int, error) {
	host, err := c.Host(ctx)
	if err != nil {
		return "", 0, err
	}
	mapped, err := c.MappedPort(ctx, nat.Port(natPort))
	if err != nil {
		return "", 0, err
	}
	return host, mapped.Int(), nil
}
