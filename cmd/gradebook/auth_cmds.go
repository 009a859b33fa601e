package main

import (
	"context"
	"flag"
	"time"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/noah-isme/sma-gradebook/internal/models"
)

func loginCmd(a *app) *ffcli.Command {
	fs := newFlags("gradebook login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	return &ffcli.Command{
		Name:       "login",
		ShortUsage: "gradebook login -email <email> -password <password>",
		ShortHelp:  "Sign in and store the session.",
		FlagSet:    fs,
		Options:    []ff.Option{ff.WithEnvVarPrefix("GRADEBOOK")},
		Exec: func(ctx context.Context, _ []string) error {
			resp, err := a.auth.Login(ctx, models.LoginRequest{Email: *email, Password: *password})
			if err != nil {
				return err
			}
			a.printf("Signed in as %s (%s).\n", resp.User.Name, resp.User.Role)
			return nil
		},
	}
}

func logoutCmd(a *app) *ffcli.Command {
	return &ffcli.Command{
		Name:       "logout",
		ShortUsage: "gradebook logout",
		ShortHelp:  "Clear the stored session.",
		Exec: func(ctx context.Context, _ []string) error {
			a.auth.Logout(ctx)
			a.printf("Signed out.\n")
			return nil
		},
	}
}

func whoamiCmd(a *app) *ffcli.Command {
	fs := newFlags("gradebook whoami")
	refresh := fs.Bool("refresh", false, "fetch the profile from the API")
	return &ffcli.Command{
		Name:       "whoami",
		ShortUsage: "gradebook whoami [-refresh]",
		ShortHelp:  "Show the signed-in user.",
		FlagSet:    fs,
		Exec: func(ctx context.Context, _ []string) error {
			var (
				user *models.User
				err  error
			)
			if *refresh {
				user, err = a.auth.Profile(ctx)
			} else {
				user, err = a.auth.CurrentUser(ctx)
			}
			if err != nil {
				return err
			}
			table(a.out, []string{"ID", "NAME", "EMAIL", "ROLE", "SCHOOL"},
				[][]string{{user.ID, user.Name, user.Email, string(user.Role), user.SchoolID}})
			if info, err := a.auth.Token(ctx); err == nil && info.ExpiresAt != nil {
				a.printf("Token expires %s.\n", info.ExpiresAt.Local().Format(time.RFC1123))
			}
			return nil
		},
	}
}

func registerCmd(a *app) *ffcli.Command {
	return &ffcli.Command{
		Name:        "register",
		ShortUsage:  "gradebook register <teacher|admin> [flags]",
		ShortHelp:   "Create an account. Registration does not sign in.",
		Subcommands: []*ffcli.Command{registerTeacherCmd(a), registerAdminCmd(a)},
		Exec:        func(context.Context, []string) error { return usageError("gradebook register <teacher|admin>") },
	}
}

type accountFlags struct {
	name, email, password, confirm, address, phone *string
}

func bindAccountFlags(fs *flag.FlagSet) accountFlags {
	return accountFlags{
		name:     fs.String("name", "", "full name"),
		email:    fs.String("email", "", "email"),
		password: fs.String("password", "", "password, at least 6 characters"),
		confirm:  fs.String("confirm", "", "password confirmation"),
		address:  fs.String("address", "", "address"),
		phone:    fs.String("phone", "", "phone"),
	}
}

func (f accountFlags) request() models.RegisterRequest {
	return models.RegisterRequest{
		Name:                 *f.name,
		Email:                *f.email,
		Password:             *f.password,
		PasswordConfirmation: *f.confirm,
		Address:              *f.address,
		Phone:                *f.phone,
	}
}

func registerTeacherCmd(a *app) *ffcli.Command {
	fs := newFlags("gradebook register teacher")
	account := bindAccountFlags(fs)
	school := fs.String("school", "", "school ID, as listed by gradebook schools public")
	return &ffcli.Command{
		Name:       "teacher",
		ShortUsage: "gradebook register teacher -school <id> -name <name> -email <email> -password <pw> -confirm <pw> -address <addr>",
		ShortHelp:  "Register a teacher in an existing school.",
		FlagSet:    fs,
		Exec: func(ctx context.Context, _ []string) error {
			req := account.request()
			req.SchoolID = *school
			user, err := a.auth.RegisterTeacher(ctx, req)
			if err != nil {
				return err
			}
			a.printf("Teacher %s registered. Sign in with `gradebook login`.\n", user.Email)
			return nil
		},
	}
}

func registerAdminCmd(a *app) *ffcli.Command {
	fs := newFlags("gradebook register admin")
	account := bindAccountFlags(fs)
	schoolName := fs.String("school-name", "", "name of the new school")
	schoolEmail := fs.String("school-email", "", "contact email of the new school")
	schoolAddress := fs.String("school-address", "", "address of the new school")
	schoolPhone := fs.String("school-phone", "", "phone of the new school")
	return &ffcli.Command{
		Name:       "admin",
		ShortUsage: "gradebook register admin -school-name <name> -school-email <email> -name <name> -email <email> -password <pw> -confirm <pw>",
		ShortHelp:  "Create a school and its administrator.",
		FlagSet:    fs,
		Exec: func(ctx context.Context, _ []string) error {
			school, user, err := a.auth.RegisterAdmin(ctx, models.SchoolInput{
				Name:    *schoolName,
				Email:   *schoolEmail,
				Address: *schoolAddress,
				Phone:   *schoolPhone,
			}, account.request())
			if school != nil {
				a.printf("School %s created (%s).\n", school.Name, school.ID)
			}
			if err != nil {
				return err
			}
			a.printf("Administrator %s registered. Sign in with `gradebook login`.\n", user.Email)
			return nil
		},
	}
}
