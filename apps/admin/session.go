package main

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/session"
)

func (cli *commandLine) login(id, name, email, role, token string) error {
	sess := session.Session{
		ID:    id,
		Name:  name,
		Email: email,
		Role:  role,
		Token: token,
	}
	secretKey := []byte(cli.conf.SecretKey)
	if sess.Token == "" {
		// local setups have no LMS-issued token; sign one ourselves
		claims := session.NewClaims(sess, cli.conf.AppName, cli.conf.Server.JWTExpirationDelta)
		signed, err := session.SignToken(claims, secretKey)
		if err != nil {
			return errors.Wrap(err, "signing token")
		}
		sess.Token = signed
	}
	if err := sess.Verify(secretKey); err != nil {
		return errors.Wrap(err, "verifying token")
	}
	if err := cli.store.Save(sess); err != nil {
		return errors.Wrap(err, "saving session")
	}
	fmt.Printf("Logged in as %s (%s)\n", sess.Name, sess.Role)
	return nil
}

func (cli *commandLine) logout() error {
	if err := cli.store.Clear(); err != nil {
		return errors.Wrap(err, "clearing session")
	}
	fmt.Println("Logged out")
	return nil
}

func (cli *commandLine) whoami() error {
	sess, err := cli.store.Get()
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s> - %s (since %s)\n", sess.Name, sess.Email, sess.Role, sess.SavedAt.Format("2006-01-02 15:04"))
	return nil
}
