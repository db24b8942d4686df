package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"subedit/internal/editor"
)

// Menu actions for the interactive editor
const (
	actionTracks     = "View subtitle tracks"
	actionAdd        = "Add a subtitle file"
	actionRemove     = "Remove a subtitle track"
	actionSetDefault = "Set a track as default"
	actionExtract    = "Extract a track to a file"
	actionPending    = "Show pending operations"
	actionDrop       = "Drop a pending operation"
	actionExport     = "Export"
	actionQuit       = "Quit"
)

func newEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <video>",
		Short: "Edit subtitle tracks interactively",
		Long: `Open a video and queue subtitle edits interactively. Operations accumulate
until Export applies them all in a single remux. Quitting without
exporting discards the queue; the source file is never modified.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tool, err := locateTool()
			if err != nil {
				return err
			}

			session := editor.NewSession(tool)
			if err := session.Load(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Printf("Loaded %s (%d subtitle tracks)\n", args[0], len(session.Tracks()))
			return runEditLoop(cmd, session)
		},
	}
}

func runEditLoop(cmd *cobra.Command, session *editor.Session) error {
	for {
		var action string
		prompt := &survey.Select{
			Message: fmt.Sprintf("subedit (%d pending):", len(session.Pending())),
			Options: []string{
				actionTracks, actionAdd, actionRemove, actionSetDefault,
				actionExtract, actionPending, actionDrop, actionExport, actionQuit,
			},
		}
		if err := survey.AskOne(prompt, &action); err != nil {
			return nil
		}

		var err error
		switch action {
		case actionTracks:
			printTrackTable(session.Tracks())
		case actionAdd:
			err = promptAdd(session)
		case actionRemove:
			err = promptTrackAction(session, "Remove which track?", session.QueueRemove)
		case actionSetDefault:
			err = promptTrackAction(session, "Set which track as default?", session.QueueSetDefault)
		case actionExtract:
			err = promptExtract(cmd, session)
		case actionPending:
			printPending(session)
		case actionDrop:
			err = promptDrop(session)
		case actionExport:
			done, exportErr := promptExport(cmd, session)
			if exportErr != nil {
				err = exportErr
			} else if done {
				return nil
			}
		case actionQuit:
			if len(session.Pending()) > 0 {
				discard := false
				survey.AskOne(&survey.Confirm{
					Message: fmt.Sprintf("Discard %d pending operations?", len(session.Pending())),
				}, &discard)
				if !discard {
					continue
				}
			}
			return nil
		}

		if err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
}

func promptAdd(session *editor.Session) error {
	answers := struct {
		Path     string
		Language string
		Title    string
		Default  bool
	}{}

	questions := []*survey.Question{
		{
			Name:     "path",
			Prompt:   &survey.Input{Message: "Subtitle file:"},
			Validate: survey.Required,
		},
		{
			Name:   "language",
			Prompt: &survey.Input{Message: "Language code:", Default: "und"},
		},
		{
			Name:   "title",
			Prompt: &survey.Input{Message: "Title (optional):"},
		},
		{
			Name:   "default",
			Prompt: &survey.Confirm{Message: "Flag as default?"},
		},
	}

	if err := survey.Ask(questions, &answers); err != nil {
		return nil
	}

	if err := session.QueueAdd(answers.Path, answers.Language, answers.Title, answers.Default); err != nil {
		return err
	}

	fmt.Println("Queued")
	return nil
}

func promptTrackAction(session *editor.Session, message string, queue func(int) error) error {
	tracks := session.Tracks()
	if len(tracks) == 0 {
		fmt.Println("No subtitle tracks")
		return nil
	}

	options := make([]string, len(tracks))
	for i, t := range tracks {
		label := fmt.Sprintf("%d: %s (%s)", t.Ordinal, t.Language, t.Codec)
		if t.Title != "" {
			label += " " + t.Title
		}
		options[i] = label
	}

	var choice string
	if err := survey.AskOne(&survey.Select{Message: message, Options: options}, &choice); err != nil {
		return nil
	}

	ordinal, err := choiceIndex(choice)
	if err != nil {
		return err
	}

	if err := queue(ordinal); err != nil {
		return err
	}

	fmt.Println("Queued")
	return nil
}

func promptExtract(cmd *cobra.Command, session *editor.Session) error {
	tracks := session.Tracks()
	if len(tracks) == 0 {
		fmt.Println("No subtitle tracks")
		return nil
	}

	answers := struct {
		Track  string
		Output string
	}{}

	options := make([]string, len(tracks))
	for i, t := range tracks {
		options[i] = fmt.Sprintf("%d: %s (%s)", t.Ordinal, t.Language, t.Codec)
	}

	questions := []*survey.Question{
		{
			Name:   "track",
			Prompt: &survey.Select{Message: "Extract which track?", Options: options},
		},
		{
			Name:     "output",
			Prompt:   &survey.Input{Message: "Output file (.srt, .ass, .vtt, ...):"},
			Validate: survey.Required,
		},
	}

	if err := survey.Ask(questions, &answers); err != nil {
		return nil
	}

	ordinal, err := choiceIndex(answers.Track)
	if err != nil {
		return err
	}

	if err := session.Extract(cmd.Context(), ordinal, answers.Output); err != nil {
		return err
	}

	fmt.Printf("Extracted to %s\n", answers.Output)
	return nil
}

func printPending(session *editor.Session) {
	pending := session.Pending()
	if len(pending) == 0 {
		fmt.Println("No pending operations")
		return
	}
	for i, op := range pending {
		fmt.Printf("  %d. %s\n", i, op.DisplayName())
	}
}

func promptDrop(session *editor.Session) error {
	pending := session.Pending()
	if len(pending) == 0 {
		fmt.Println("No pending operations")
		return nil
	}

	options := make([]string, len(pending))
	for i, op := range pending {
		options[i] = fmt.Sprintf("%d: %s", i, op.DisplayName())
	}

	var choice string
	if err := survey.AskOne(&survey.Select{Message: "Drop which operation?", Options: options}, &choice); err != nil {
		return nil
	}

	index, err := choiceIndex(choice)
	if err != nil {
		return err
	}

	return session.DropPending(index)
}

// choiceIndex parses the leading "N:" of a menu option label
func choiceIndex(choice string) (int, error) {
	prefix, _, ok := strings.Cut(choice, ":")
	if !ok {
		return 0, fmt.Errorf("malformed choice %q", choice)
	}
	return strconv.Atoi(prefix)
}

func promptExport(cmd *cobra.Command, session *editor.Session) (bool, error) {
	var output string
	if err := survey.AskOne(&survey.Input{
		Message: "Output file:",
	}, &output, survey.WithValidator(survey.Required)); err != nil {
		return false, nil
	}

	pending := session.Pending()
	if err := session.Export(cmd.Context(), output); err != nil {
		return false, err
	}

	fmt.Printf("Exported %s (%d operations)\n", output, len(pending))
	return true, nil
}
