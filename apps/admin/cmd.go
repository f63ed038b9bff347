package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/Otsikow/bridge-study-global-sub004/core"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf    *core.Config
	mailSvc core.EmailService
	out     io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  mint-token -sub ID [-email EMAIL] [-role ROLE] [-ttl DURATION] - sign a JWT for local testing")
	fmt.Fprintln(cli.out, "  send-test-email -to ADDRESS [-name NAME] - send the contact confirmation email")
	fmt.Fprintln(cli.out, "  config - print the resolved configuration (secrets are masked)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	mintTokenCmd := flag.NewFlagSet("mint-token", flag.ContinueOnError)
	mintTokenCmd.SetOutput(cli.out)
	mintTokenSub := mintTokenCmd.String("sub", "", "The subject (user ID) of the token.")
	mintTokenEmail := mintTokenCmd.String("email", "", "The email claim.")
	mintTokenRole := mintTokenCmd.String("role", "authenticated", "The role claim.")
	mintTokenTTL := mintTokenCmd.Duration("ttl", time.Hour, "How long the token is valid.")

	sendEmailCmd := flag.NewFlagSet("send-test-email", flag.ContinueOnError)
	sendEmailCmd.SetOutput(cli.out)
	sendEmailTo := sendEmailCmd.String("to", "", "The recipient's email address.")
	sendEmailName := sendEmailCmd.String("name", "Test Student", "The recipient's name.")

	switch args[1] {
	case "mint-token":
		if err := mintTokenCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *mintTokenSub == "" || *mintTokenTTL <= 0 {
			mintTokenCmd.Usage()
			return errHelp
		}
		secret := cli.conf.Auth.JWTSecret
		if secret == "" {
			fmt.Fprint(cli.out, "Enter JWT secret:")
			pwd, err := readPasswordFunc(int(syscall.Stdin))
			fmt.Fprintln(cli.out)
			if err != nil {
				return err
			}
			if len(pwd) == 0 {
				mintTokenCmd.Usage()
				return errHelp
			}
			secret = string(pwd)
		}
		return cli.mintToken(*mintTokenSub, *mintTokenEmail, *mintTokenRole, *mintTokenTTL, secret)
	case "send-test-email":
		if err := sendEmailCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *sendEmailTo == "" {
			sendEmailCmd.Usage()
			return errHelp
		}
		return cli.sendTestEmail(*sendEmailTo, *sendEmailName)
	case "config":
		return cli.printConfig()
	default:
		cli.printUsage()
		return errHelp
	}
}
