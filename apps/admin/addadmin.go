package main

import (
	"context"
	"time"

	"github.com/campuskit/bytehub/core"
	"github.com/campuskit/bytehub/core/user"
)

// addAdmin creates a staff account unless the email is already taken.
func (cli *commandLine) addAdmin(name, email, role, pwd string) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)

	if _, err := cli.admRepo.GetAdminByEmail(ctx, email); err == nil {
		return user.ErrAdminExists
	} else if err != user.ErrNotFound {
		return err
	}

	now := time.Now().UTC()
	adm := user.Admin{
		Name:      core.CleanString(name),
		Email:     email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := adm.SetPassword(pwd); err != nil {
		return err
	}
	_, err := cli.admRepo.CreateAdmin(ctx, adm)
	return err
}
