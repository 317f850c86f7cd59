package postgresql

import (
	"github.com/rediwo/redi-pgconf/test"
)

func init() {
	test.RegisterTestDSN(DriverPQ, test.PostgresDSN())
	test.RegisterTestDSN(DriverPGX, test.PostgresDSN())
}
