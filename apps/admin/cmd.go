package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/session"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf  *core.Config
	store session.Store
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  login -id ID -name NAME -email EMAIL -role teacher|student - save the local session record")
	fmt.Println("  logout - clear the local session record")
	fmt.Println("  whoami - show the current session")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	loginID := loginCmd.String("id", "", "The user's LMS id. The LMS token will be prompted next.")
	loginName := loginCmd.String("name", "", "The user's display name.")
	loginEmail := loginCmd.String("email", "", "The user's email.")
	loginRole := loginCmd.String("role", "", "teacher or student.")

	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loginID == "" || (*loginRole != session.RoleTeacher && *loginRole != session.RoleStudent) {
			loginCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter LMS token (leave empty to sign one locally):")
		token, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		return cli.login(*loginID, *loginName, *loginEmail, *loginRole, string(token))
	case "logout":
		return cli.logout()
	case "whoami":
		return cli.whoami()
	default:
		cli.printUsage()
		return errHelp
	}
}
