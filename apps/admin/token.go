package main

import (
	"fmt"

	"github.com/trezcool/eduscan/apps/api/echo"
	"github.com/trezcool/eduscan/core"
)

var errInvalidRole = fmt.Errorf("role must be one of %v", echoapi.Roles)

func (cli *commandLine) token(name, role string) error {
	role = core.CleanString(role, true /* lower */)
	if !echoapi.IsValidRole(role) {
		return errInvalidRole
	}
	claims := echoapi.NewClaims(cli.conf, cli.clock.Now(), core.CleanString(name), role)
	token, err := echoapi.GenerateToken(cli.conf, claims)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, token)
	return nil
}
