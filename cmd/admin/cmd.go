package main

import (
	"classroom_backend/internal/model"
	"classroom_backend/internal/service"
	"classroom_backend/pkg/database"
	"context"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/fatih/color"
	"golang.org/x/term"
	"gorm.io/gorm"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp             = errors.New("help provided")
	errPasswordMismatch = errors.New("passwords do not match")
)

type commandLine struct {
	db    *gorm.DB
	users *service.UserService
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate [up|status]                - apply or inspect schema migrations")
	fmt.Println("  createadmin -name NAME -email EMAIL - create an admin account")
	fmt.Println("  resetpassword -email EMAIL         - reset a user's password")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	createAdminCmd := flag.NewFlagSet("createadmin", flag.ContinueOnError)
	adminName := createAdminCmd.String("name", "", "The admin's display name.")
	adminEmail := createAdminCmd.String("email", "", "The admin's email. The password will be prompted next.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetEmail := resetPasswordCmd.String("email", "", "The user's email. The password will be prompted next.")

	ctx := context.Background()
	switch args[1] {
	case "migrate":
		return cli.migrate(ctx, args[2:])
	case "createadmin":
		if err := createAdminCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *adminName == "" || *adminEmail == "" {
			createAdminCmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			createAdminCmd.Usage()
			return errHelp
		}
		id, err := cli.users.CreateUser(ctx, service.NewUserInput{
			Name:     *adminName,
			Email:    *adminEmail,
			Password: pwd,
			Role:     model.Admin,
		})
		if err != nil {
			return err
		}
		color.Green("admin %s created (id %d)", *adminEmail, id)
		return nil
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		if err := cli.users.ResetPassword(ctx, *resetEmail, pwd); err != nil {
			return err
		}
		color.Green("password of %s updated", *resetEmail)
		return nil
	default:
		cli.printUsage()
		return errHelp
	}
}

// promptPassword reads the password twice without echo.
func promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Println()
	if err != nil || len(pwd) == 0 {
		return "", err
	}

	fmt.Print("Confirm password:")
	confirm, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	if string(confirm) != string(pwd) {
		return "", errPasswordMismatch
	}
	return string(pwd), nil
}

func (cli *commandLine) migrate(ctx context.Context, args []string) error {
	cmd := "up"
	if len(args) > 0 {
		cmd = args[0]
	}
	switch cmd {
	case "up":
		if err := database.Migrate(ctx, cli.db); err != nil {
			return err
		}
		color.Green("schema is up to date")
		return nil
	case "status":
		err := database.CheckSchema(ctx, cli.db)
		if errors.Is(err, database.ErrSchemaOutdated) {
			color.Yellow(err.Error())
			return nil
		}
		if err != nil {
			return err
		}
		color.Green("schema is up to date")
		return nil
	default:
		return fmt.Errorf("%q: no such command", cmd)
	}
}
