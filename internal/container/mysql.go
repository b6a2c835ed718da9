package container

import (
	"context"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
)

const defaultMySQLImage = "mysql:8.0"

// startMySQL pins the server's character set and storage defaults so
// fixtures behave identically across machines, grounded on
// internal/apply/apply_connector_test.go's mysql.Run(...) usage.
func startMySQL(ctx context.Context, image string) (testcontainers.Container, Endpoint, error) {
	if image == "" {
		image = defaultMySQLImage
	}

	c, err := mysql.Run(ctx, image,
		mysql.WithDatabase("drift"),
		mysql.WithUsername("root"),
		mysql.WithPassword("drift"),
		testcontainers.WithCmd(
			"--character-set-server=latin1",
			"--collation-server=latin1_swedish_ci",
			"--default-authentication-plugin=mysql_native_password",
			"--innodb-default-row-format=DYNAMIC",
			"--max-allowed-packet=256M",
		),
	)
	if err != nil {
		return nil, Endpoint{}, err
	}

	dsn, err := c.ConnectionString(ctx, "parseTime=true")
	if err != nil {
		return nil, Endpoint{}, err
	}
	return c, Endpoint{DSN: dsn}, nil
}
