package main

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/Otsikow/bridge-study-global-sub004/core"
	"github.com/Otsikow/bridge-study-global-sub004/core/contact"
)

func (cli *commandLine) sendTestEmail(to, name string) error {
	addr, err := mail.ParseAddress(to)
	if err != nil {
		return core.NewValidationError(errors.Wrapf(err, "invalid address %q", to))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	msg := contact.ConfirmationMessage(contact.Submission{
		Name:    name,
		Email:   addr.Address,
		Message: "This is a test message sent from the admin CLI.",
	})
	if err = cli.mailSvc.SendMessages(ctx, msg); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cli.out, "test email sent to %s\n", addr.Address)
	return err
}
