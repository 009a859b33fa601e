package main

import (
	"context"
	"strconv"

	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/internal/service"
)

func group(name, usage, help string, subs ...*ffcli.Command) *ffcli.Command {
	return &ffcli.Command{
		Name:        name,
		ShortUsage:  usage,
		ShortHelp:   help,
		Subcommands: subs,
		Exec:        func(context.Context, []string) error { return usageError(usage) },
	}
}

func schoolsCmd(a *app) *ffcli.Command {
	printSchools := func(schools []models.School) {
		rows := make([][]string, 0, len(schools))
		for _, s := range schools {
			rows = append(rows, []string{s.ID, s.Name, s.Email, s.Phone})
		}
		table(a.out, []string{"ID", "NAME", "EMAIL", "PHONE"}, rows)
	}

	public := &ffcli.Command{
		Name:       "public",
		ShortUsage: "gradebook schools public",
		ShortHelp:  "List the schools open for sign-up. No session needed.",
		Exec: func(ctx context.Context, _ []string) error {
			schools, err := a.schools.ListPublic(ctx)
			if err != nil {
				return err
			}
			printSchools(schools)
			return nil
		},
	}
	list := &ffcli.Command{
		Name:       "list",
		ShortUsage: "gradebook schools list",
		ShortHelp:  "List the schools visible to the signed-in user.",
		Exec: func(ctx context.Context, _ []string) error {
			if _, err := a.actor(ctx); err != nil {
				return err
			}
			schools, err := a.schools.List(ctx)
			if err != nil {
				return err
			}
			printSchools(schools)
			return nil
		},
	}

	updateFlags := newFlags("gradebook schools update")
	name := updateFlags.String("name", "", "school name")
	email := updateFlags.String("email", "", "school email")
	address := updateFlags.String("address", "", "school address")
	phone := updateFlags.String("phone", "", "school phone")
	update := &ffcli.Command{
		Name:       "update",
		ShortUsage: "gradebook schools update [flags] <id>",
		ShortHelp:  "Update a school. Administrators only.",
		FlagSet:    updateFlags,
		Exec: func(ctx context.Context, args []string) error {
			if err := needArgs(args, 1, "gradebook schools update [flags] <id>"); err != nil {
				return err
			}
			actor, err := a.actor(ctx)
			if err != nil {
				return err
			}
			school, err := a.schools.Update(ctx, actor, args[0], models.SchoolUpdate{
				Name:    optional(updateFlags, "name", *name),
				Email:   optional(updateFlags, "email", *email),
				Address: optional(updateFlags, "address", *address),
				Phone:   optional(updateFlags, "phone", *phone),
			})
			if err != nil {
				return err
			}
			printSchools([]models.School{*school})
			return nil
		},
	}
	return group("schools", "gradebook schools <public|list|update>", "Schools.", public, list, update)
}

func studentsCmd(a *app) *ffcli.Command {
	printStudents := func(students []models.Student) {
		rows := make([][]string, 0, len(students))
		for _, s := range students {
			rows = append(rows, []string{s.ID, s.RegistrationNumber, s.Name, s.Email, s.Phone})
		}
		table(a.out, []string{"ID", "REGISTRATION", "NAME", "EMAIL", "PHONE"}, rows)
	}

	listFlags := newFlags("gradebook students list")
	query := listFlags.String("q", "", "filter by name or registration number")
	list := &ffcli.Command{
		Name:       "list",
		ShortUsage: "gradebook students list [-q <text>]",
		ShortHelp:  "List students.",
		FlagSet:    listFlags,
		Exec: func(ctx context.Context, _ []string) error {
			if _, err := a.actor(ctx); err != nil {
				return err
			}
			students, err := a.students.Search(ctx, *query)
			if err != nil {
				return err
			}
			printStudents(students)
			return nil
		},
	}
	show := &ffcli.Command{
		Name:       "show",
		ShortUsage: "gradebook students show <id>",
		ShortHelp:  "Show a student.",
		Exec: func(ctx context.Context, args []string) error {
			if err := needArgs(args, 1, "gradebook students show <id>"); err != nil {
				return err
			}
			if _, err := a.actor(ctx); err != nil {
				return err
			}
			student, err := a.students.Get(ctx, args[0])
			if err != nil {
				return err
			}
			printStudents([]models.Student{*student})
			return nil
		},
	}

	createFlags := newFlags("gradebook students create")
	name := createFlags.String("name", "", "student name")
	email := createFlags.String("email", "", "student email")
	registration := createFlags.String("registration", "", "registration number")
	phone := createFlags.String("phone", "", "phone")
	create := &ffcli.Command{
		Name:       "create",
		ShortUsage: "gradebook students create -name <name> -email <email> -registration <number> [-phone <phone>]",
		ShortHelp:  "Register a student.",
		FlagSet:    createFlags,
		Exec: func(ctx context.Context, _ []string) error {
			if _, err := a.actor(ctx); err != nil {
				return err
			}
			student, err := a.students.Create(ctx, models.StudentInput{
				Name: *name, Email: *email, RegistrationNumber: *registration, Phone: *phone,
			})
			if err != nil {
				return err
			}
			printStudents([]models.Student{*student})
			return nil
		},
	}

	updateFlags := newFlags("gradebook students update")
	uName := updateFlags.String("name", "", "student name")
	uEmail := updateFlags.String("email", "", "student email")
	uRegistration := updateFlags.String("registration", "", "registration number")
	uPhone := updateFlags.String("phone", "", "phone")
	update := &ffcli.Command{
		Name:       "update",
		ShortUsage: "gradebook students update [flags] <id>",
		ShortHelp:  "Update a student.",
		FlagSet:    updateFlags,
		Exec: func(ctx context.Context, args []string) error {
			if err := needArgs(args, 1, "gradebook students update [flags] <id>"); err != nil {
				return err
			}
			if _, err := a.actor(ctx); err != nil {
				return err
			}
			student, err := a.students.Update(ctx, args[0], models.StudentUpdate{
				Name:               optional(updateFlags, "name", *uName),
				Email:              optional(updateFlags, "email", *uEmail),
				RegistrationNumber: optional(updateFlags, "registration", *uRegistration),
				Phone:              optional(updateFlags, "phone", *uPhone),
			})
			if err != nil {
				return err
			}
			printStudents([]models.Student{*student})
			return nil
		},
	}
	del := &ffcli.Command{
		Name:       "delete",
		ShortUsage: "gradebook students delete <id>",
		ShortHelp:  "Remove a student.",
		Exec: func(ctx context.Context, args []string) error {
			if err := needArgs(args, 1, "gradebook students delete <id>"); err != nil {
				return err
			}
			if _, err := a.actor(ctx); err != nil {
				return err
			}
			if err := a.students.Delete(ctx, args[0]); err != nil {
				return err
			}
			a.printf("Student removed.\n")
			return nil
		},
	}
	return group("students", "gradebook students <list|show|create|update|delete>", "Students.", list, show, create, update, del)
}

func subjectsCmd(a *app) *ffcli.Command {
	printSubjects := func(subjects []models.Subject) {
		rows := make([][]string, 0, len(subjects))
		for _, s := range subjects {
			rows = append(rows, []string{
				s.ID, s.Code, s.Name, strconv.Itoa(s.NumberOfGrades),
				service.FormatScore(s.PassingAverage), service.FormatScore(s.RecoveryAverage), s.TeacherID,
			})
		}
		table(a.out, []string{"ID", "CODE", "NAME", "GRADES", "PASSING", "RECOVERY", "TEACHER"}, rows)
	}

	list := &ffcli.Command{
		Name:       "list",
		ShortUsage: "gradebook subjects list",
		ShortHelp:  "List subjects.",
		Exec: func(ctx context.Context, _ []string) error {
			if _, err := a.actor(ctx); err != nil {
				return err
			}
			subjects, err := a.subjects.List(ctx)
			if err != nil {
				return err
			}
			printSubjects(subjects)
			return nil
		},
	}
	show := &ffcli.Command{
		Name:       "show",
		ShortUsage: "gradebook subjects show <id>",
		ShortHelp:  "Show a subject.",
		Exec: func(ctx context.Context, args []string) error {
			if err := needArgs(args, 1, "gradebook subjects show <id>"); err != nil {
				return err
			}
			if _, err := a.actor(ctx); err != nil {
				return err
			}
			subject, err := a.subjects.Get(ctx, args[0])
			if err != nil {
				return err
			}
			printSubjects([]models.Subject{*subject})
			return nil
		},
	}

	createFlags := newFlags("gradebook subjects create")
	name := createFlags.String("name", "", "subject name")
	code := createFlags.String("code", "", "subject code")
	grades := createFlags.Int("grades", 4, "number of grades in the term")
	passing := createFlags.Float64("passing", 7, "passing average")
	recovery := createFlags.Float64("recovery", 5, "recovery average")
	teacher := createFlags.String("teacher", "", "teacher ID, ignored for teachers")
	create := &ffcli.Command{
		Name:       "create",
		ShortUsage: "gradebook subjects create -name <name> -code <code> [flags]",
		ShortHelp:  "Create a subject.",
		FlagSet:    createFlags,
		Exec: func(ctx context.Context, _ []string) error {
			actor, err := a.actor(ctx)
			if err != nil {
				return err
			}
			subject, err := a.subjects.Create(ctx, actor, models.SubjectInput{
				Name:            *name,
				Code:            *code,
				NumberOfGrades:  *grades,
				PassingAverage:  *passing,
				RecoveryAverage: *recovery,
				TeacherID:       *teacher,
			})
			if err != nil {
				return err
			}
			printSubjects([]models.Subject{*subject})
			return nil
		},
	}
	del := &ffcli.Command{
		Name:       "delete",
		ShortUsage: "gradebook subjects delete <id>",
		ShortHelp:  "Remove a subject and its grades.",
		Exec: func(ctx context.Context, args []string) error {
			if err := needArgs(args, 1, "gradebook subjects delete <id>"); err != nil {
				return err
			}
			if _, err := a.actor(ctx); err != nil {
				return err
			}
			if err := a.subjects.Delete(ctx, args[0]); err != nil {
				return err
			}
			a.printf("Subject removed.\n")
			return nil
		},
	}
	return group("subjects", "gradebook subjects <list|show|create|delete>", "Subjects.", list, show, create, del)
}

func printUsers(a *app, users []models.User) {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.ID, u.Name, u.Email, string(u.Role), u.Phone})
	}
	table(a.out, []string{"ID", "NAME", "EMAIL", "ROLE", "PHONE"}, rows)
}

func teachersCmd(a *app) *ffcli.Command {
	list := &ffcli.Command{
		Name:       "list",
		ShortUsage: "gradebook teachers list",
		ShortHelp:  "List teachers. Administrators only.",
		Exec: func(ctx context.Context, _ []string) error {
			actor, err := a.actor(ctx)
			if err != nil {
				return err
			}
			teachers, err := a.teachers.List(ctx, actor)
			if err != nil {
				return err
			}
			printUsers(a, teachers)
			return nil
		},
	}

	createFlags := newFlags("gradebook teachers create")
	account := bindAccountFlags(createFlags)
	create := &ffcli.Command{
		Name:       "create",
		ShortUsage: "gradebook teachers create -name <name> -email <email> -password <pw> -confirm <pw> -address <addr>",
		ShortHelp:  "Create a teacher in your school. Administrators only.",
		FlagSet:    createFlags,
		Exec: func(ctx context.Context, _ []string) error {
			actor, err := a.actor(ctx)
			if err != nil {
				return err
			}
			req := account.request()
			teacher, err := a.teachers.Create(ctx, actor, models.TeacherInput{
				Name:                 req.Name,
				Email:                req.Email,
				Password:             req.Password,
				PasswordConfirmation: req.PasswordConfirmation,
				Address:              req.Address,
				Phone:                req.Phone,
			})
			if err != nil {
				return err
			}
			printUsers(a, []models.User{*teacher})
			return nil
		},
	}
	del := &ffcli.Command{
		Name:       "delete",
		ShortUsage: "gradebook teachers delete <id>",
		ShortHelp:  "Remove a teacher. Administrators only.",
		Exec: func(ctx context.Context, args []string) error {
			if err := needArgs(args, 1, "gradebook teachers delete <id>"); err != nil {
				return err
			}
			actor, err := a.actor(ctx)
			if err != nil {
				return err
			}
			if err := a.teachers.Delete(ctx, actor, args[0]); err != nil {
				return err
			}
			a.printf("Teacher removed.\n")
			return nil
		},
	}
	return group("teachers", "gradebook teachers <list|create|delete>", "Teachers.", list, create, del)
}

func usersCmd(a *app) *ffcli.Command {
	list := &ffcli.Command{
		Name:       "list",
		ShortUsage: "gradebook users list",
		ShortHelp:  "List every user of the school.",
		Exec: func(ctx context.Context, _ []string) error {
			if _, err := a.actor(ctx); err != nil {
				return err
			}
			users, err := a.users.List(ctx)
			if err != nil {
				return err
			}
			printUsers(a, users)
			return nil
		},
	}

	passwordFlags := newFlags("gradebook users password")
	password := passwordFlags.String("password", "", "new password")
	confirm := passwordFlags.String("confirm", "", "password confirmation")
	changePassword := &ffcli.Command{
		Name:       "password",
		ShortUsage: "gradebook users password -password <pw> -confirm <pw>",
		ShortHelp:  "Change your own password.",
		FlagSet:    passwordFlags,
		Exec: func(ctx context.Context, _ []string) error {
			actor, err := a.actor(ctx)
			if err != nil {
				return err
			}
			if _, err := a.users.Update(ctx, actor.ID, models.UpdateUserInput{Password: password, PasswordConfirmation: confirm}); err != nil {
				return err
			}
			a.printf("Password changed.\n")
			return nil
		},
	}
	return group("users", "gradebook users <list|password>", "Users.", list, changePassword)
}
