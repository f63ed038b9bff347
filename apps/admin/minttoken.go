package main

import (
	"fmt"
	"time"

	echoapi "github.com/Otsikow/bridge-study-global-sub004/apps/api/echo"
	"github.com/Otsikow/bridge-study-global-sub004/core"
)

// mintToken prints an HS256 token the functions API accepts when it verifies signatures with secret.
func (cli *commandLine) mintToken(sub, email, role string, ttl time.Duration, secret string) error {
	claims := echoapi.NewClaims(core.CleanString(sub), core.CleanString(email, true /* lower */), role, ttl)
	token, err := echoapi.GenerateToken(claims, secret)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cli.out, token)
	return err
}
