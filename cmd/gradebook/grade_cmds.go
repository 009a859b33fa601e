package main

import (
	"context"
	"errors"
	"flag"

	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/internal/service"
)

// filterFlags adds -student and -subject to fs.
func filterFlags(fs *flag.FlagSet) func() models.GradeFilter {
	student := fs.String("student", "", "only grades of this student ID")
	subject := fs.String("subject", "", "only grades of this subject ID")
	return func() models.GradeFilter {
		return models.GradeFilter{StudentID: *student, SubjectID: *subject}
	}
}

func (a *app) printRows(rows []service.GradeRow) {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.ID, r.StudentName, r.SubjectName, r.ScoreList(), service.FormatScore(r.Average), r.Status.Label()})
	}
	table(a.out, []string{"ID", "STUDENT", "SUBJECT", "SCORES", "AVERAGE", "STATUS"}, out)
}

// printGrade shows a grade returned by a mutation, resolved against board.
func (a *app) printGrade(board *service.GradeBoard, grade *models.Grade) {
	a.printRows([]service.GradeRow{{
		ID:          grade.ID,
		StudentName: board.StudentName(grade.StudentID),
		SubjectName: board.SubjectName(grade.SubjectID),
		Scores:      grade.Scores,
		Average:     grade.Average,
		Status:      grade.Status,
	}})
}

// board signs the user in and loads the grade board. A partial board is
// enough for mutations; names that failed to load read as unknown.
func (a *app) board(ctx context.Context, filter models.GradeFilter) (*service.GradeBoard, error) {
	if _, err := a.actor(ctx); err != nil {
		return nil, err
	}
	return a.grades.LoadBoard(ctx, filter)
}

func gradesCmd(a *app) *ffcli.Command {
	listFlags := newFlags("gradebook grades list")
	listFilter := filterFlags(listFlags)
	list := &ffcli.Command{
		Name:       "list",
		ShortUsage: "gradebook grades list [-student <id>] [-subject <id>]",
		ShortHelp:  "List grades with student and subject names.",
		FlagSet:    listFlags,
		Exec: func(ctx context.Context, _ []string) error {
			filter := listFilter()
			board, err := a.board(ctx, filter)
			if err != nil {
				return err
			}
			a.printRows(board.Rows(filter))
			return nil
		},
	}

	show := &ffcli.Command{
		Name:       "show",
		ShortUsage: "gradebook grades show <id>",
		ShortHelp:  "Show one grade.",
		Exec: func(ctx context.Context, args []string) error {
			if err := needArgs(args, 1, "gradebook grades show <id>"); err != nil {
				return err
			}
			board, err := a.board(ctx, models.GradeFilter{})
			if err != nil && board == nil {
				return err
			}
			grade, err := a.grades.Get(ctx, args[0])
			if err != nil {
				return err
			}
			a.printGrade(board, grade)
			return nil
		},
	}

	createFlags := newFlags("gradebook grades create")
	student := createFlags.String("student", "", "student ID")
	subject := createFlags.String("subject", "", "subject ID")
	create := &ffcli.Command{
		Name:       "create",
		ShortUsage: "gradebook grades create -student <id> -subject <id> <score>...",
		ShortHelp:  "Record the scores of a student in a subject.",
		FlagSet:    createFlags,
		Exec: func(ctx context.Context, args []string) error {
			scores, err := parseScores(args)
			if err != nil {
				return err
			}
			board, err := a.board(ctx, models.GradeFilter{})
			if err != nil {
				// creating without a full board would skip the duplicate check
				return err
			}
			grade, err := a.grades.SubmitCreate(ctx, board, models.CreateGradeInput{
				StudentID: *student, SubjectID: *subject, Scores: scores,
			})
			var conflict *service.GradeConflictError
			if errors.As(err, &conflict) {
				a.printGrade(board, &conflict.Existing)
				a.printf("Edit it with: gradebook grades set-all %s <score>...\n", conflict.Existing.ID)
				return err
			}
			if err != nil {
				return err
			}
			a.printGrade(board, grade)
			return nil
		},
	}

	addScore := &ffcli.Command{
		Name:       "add-score",
		ShortUsage: "gradebook grades add-score <id> <score>",
		ShortHelp:  "Append one score.",
		Exec: func(ctx context.Context, args []string) error {
			if err := needArgs(args, 2, "gradebook grades add-score <id> <score>"); err != nil {
				return err
			}
			scores, err := parseScores(args[1:])
			if err != nil {
				return err
			}
			board, err := a.board(ctx, models.GradeFilter{})
			if err != nil && board == nil {
				return err
			}
			grade, err := a.grades.AddScore(ctx, board, args[0], scores[0])
			if err != nil {
				return err
			}
			a.printGrade(board, grade)
			return nil
		},
	}

	setScore := &ffcli.Command{
		Name:       "set-score",
		ShortUsage: "gradebook grades set-score <id> <position> <score>",
		ShortHelp:  "Replace the score at a position, counting from 1.",
		Exec: func(ctx context.Context, args []string) error {
			if err := needArgs(args, 3, "gradebook grades set-score <id> <position> <score>"); err != nil {
				return err
			}
			position, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			scores, err := parseScores(args[2:])
			if err != nil {
				return err
			}
			board, err := a.board(ctx, models.GradeFilter{})
			if err != nil && board == nil {
				return err
			}
			grade, err := a.grades.UpdateScore(ctx, board, args[0], position-1, scores[0])
			if err != nil {
				return err
			}
			a.printGrade(board, grade)
			return nil
		},
	}

	setAll := &ffcli.Command{
		Name:       "set-all",
		ShortUsage: "gradebook grades set-all <id> <score>...",
		ShortHelp:  "Replace the whole score list.",
		Exec: func(ctx context.Context, args []string) error {
			if len(args) < 2 {
				return usageError("gradebook grades set-all <id> <score>...")
			}
			scores, err := parseScores(args[1:])
			if err != nil {
				return err
			}
			board, err := a.board(ctx, models.GradeFilter{})
			if err != nil && board == nil {
				return err
			}
			grade, err := a.grades.SubmitUpdateAll(ctx, board, args[0], scores)
			if err != nil {
				return err
			}
			a.printGrade(board, grade)
			return nil
		},
	}

	del := &ffcli.Command{
		Name:       "delete",
		ShortUsage: "gradebook grades delete <id>",
		ShortHelp:  "Remove a grade.",
		Exec: func(ctx context.Context, args []string) error {
			if err := needArgs(args, 1, "gradebook grades delete <id>"); err != nil {
				return err
			}
			if _, err := a.actor(ctx); err != nil {
				return err
			}
			if err := a.grades.Delete(ctx, nil, args[0]); err != nil {
				return err
			}
			a.printf("Grade removed.\n")
			return nil
		},
	}

	exportFlags := newFlags("gradebook grades export")
	exportFilter := filterFlags(exportFlags)
	format := exportFlags.String("format", "csv", "csv, pdf or xlsx")
	export := &ffcli.Command{
		Name:       "export",
		ShortUsage: "gradebook grades export [-format csv|pdf|xlsx] [-student <id>] [-subject <id>]",
		ShortHelp:  "Write the grade board to a file.",
		FlagSet:    exportFlags,
		Exec: func(ctx context.Context, _ []string) error {
			f, err := service.ParseExportFormat(*format)
			if err != nil {
				return err
			}
			filter := exportFilter()
			board, err := a.board(ctx, filter)
			if err != nil {
				return err
			}
			result, err := a.exports.ExportGrades(ctx, board, filter, f)
			if result != nil {
				a.printf("%d grade(s) written to %s\n", result.Rows, result.Path)
				if result.URI != "" {
					a.printf("Uploaded to %s\n", result.URI)
				}
			}
			return err
		},
	}

	return group("grades", "gradebook grades <list|show|create|add-score|set-score|set-all|delete|export>", "Grades.",
		list, show, create, addScore, setScore, setAll, del, export)
}
