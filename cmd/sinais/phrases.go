package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ayusman/sinais/internal/config"
	"github.com/ayusman/sinais/internal/gesture"
	"github.com/ayusman/sinais/internal/store"
)

func newPhrasesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phrases",
		Short: "Manage stored gesture phrases",
	}

	cmd.AddCommand(newPhrasesListCommand(ctx))
	cmd.AddCommand(newPhrasesAddCommand(ctx))
	cmd.AddCommand(newPhrasesImportCommand(ctx))
	cmd.AddCommand(newPhrasesDeleteCommand(ctx))
	return cmd
}

func newPhrasesListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored phrases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				phrases, err := st.Phrases().List()
				if err != nil {
					return fmt.Errorf("list phrases: %w", err)
				}
				out := cmd.OutOrStdout()
				if len(phrases) == 0 {
					fmt.Fprintln(out, "No phrases stored")
					return nil
				}
				rows := make([][]string, 0, len(phrases))
				for _, p := range phrases {
					rows = append(rows, []string{
						p.Name,
						strings.Join(p.Labels, " "),
						p.CreatedAt.Local().Format("2006-01-02 15:04"),
						p.ID,
					})
				}
				fmt.Fprintln(out, renderTable(out, []string{"Name", "Gestures", "Created", "ID"}, rows, nil))
				return nil
			})
		},
	}
}

func newPhrasesAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME GESTURE...",
		Short: "Store a phrase, replacing the gestures of an existing one",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return errors.New("phrase name must not be empty")
			}
			labels, err := gesture.ParsePhrase(args[1:])
			if err != nil {
				return err
			}
			return ctx.withStore(func(st *store.Store) error {
				p, err := savePhrase(st, name, labels)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved phrase %s: %s\n", p.Name, strings.Join(p.Labels, " "))
				return nil
			})
		},
	}
}

func newPhrasesImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import phrases from a YAML file",
		Long: `Import phrases from a YAML file of the form

  phrases:
    - name: help
      labels: [bom, dia, emergencia]

Phrases whose name already exists get the new gestures.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := config.LoadPhraseFile(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(st *store.Store) error {
				out := cmd.OutOrStdout()
				for _, def := range defs {
					labels, err := gesture.ParsePhrase(def.Labels)
					if err != nil {
						return fmt.Errorf("phrase %q: %w", def.Name, err)
					}
					if _, err := savePhrase(st, def.Name, labels); err != nil {
						return err
					}
				}
				fmt.Fprintf(out, "Imported %d phrase(s) from %s\n", len(defs), args[0])
				return nil
			})
		},
	}
}

func newPhrasesDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME|ID",
		Short: "Delete a stored phrase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				p, err := findPhrase(st, args[0])
				if err != nil {
					return err
				}
				if err := st.Phrases().Delete(p.ID); err != nil {
					return fmt.Errorf("delete phrase: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted phrase %s\n", p.Name)
				return nil
			})
		},
	}
}

func savePhrase(st *store.Store, name string, labels []gesture.Label) (*store.Phrase, error) {
	if len(labels) == 0 {
		return nil, gesture.ErrEmptyPhrase
	}
	p := &store.Phrase{
		ID:     uuid.New().String(),
		Name:   name,
		Labels: make([]string, len(labels)),
	}
	for i, l := range labels {
		p.Labels[i] = string(l)
	}
	if err := st.Phrases().Upsert(p); err != nil {
		return nil, fmt.Errorf("save phrase %q: %w", name, err)
	}
	return p, nil
}

func findPhrase(st *store.Store, nameOrID string) (*store.Phrase, error) {
	p, err := st.Phrases().GetByName(nameOrID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	p, err = st.Phrases().GetByID(nameOrID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("phrase %q not found", nameOrID)
	}
	return p, err
}
