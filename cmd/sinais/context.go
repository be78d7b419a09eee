package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ayusman/sinais/internal/config"
	"github.com/ayusman/sinais/internal/gesture"
	"github.com/ayusman/sinais/internal/logging"
	"github.com/ayusman/sinais/internal/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) openStore() (*store.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	st, err := store.New(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// withStore opens the store for the duration of fn.
func (c *commandContext) withStore(fn func(*store.Store) error) error {
	st, err := c.openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func (c *commandContext) logger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// target is the phrase a run or replay recognizes.
type target struct {
	session gesture.Config
	name    string
	id      string
}

// resolveTarget picks the stored phrase called name, or the configured
// phrase when name is empty. st may be nil only when name is empty.
func resolveTarget(cfg *config.Config, st *store.Store, name string) (target, error) {
	session, err := cfg.GestureConfig()
	if err != nil {
		return target{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return target{session: session}, nil
	}
	if st == nil {
		return target{}, errors.New("a stored phrase needs the database")
	}

	phrase, err := st.Phrases().GetByName(name)
	if errors.Is(err, store.ErrNotFound) {
		return target{}, fmt.Errorf("phrase %q not found; add it with `sinais phrases add`", name)
	}
	if err != nil {
		return target{}, fmt.Errorf("load phrase %q: %w", name, err)
	}
	labels, err := gesture.ParsePhrase(phrase.Labels)
	if err != nil {
		return target{}, fmt.Errorf("phrase %q: %w", name, err)
	}
	session.Phrase = labels
	if err := session.Validate(); err != nil {
		return target{}, fmt.Errorf("phrase %q: %w", name, err)
	}
	return target{session: session, name: phrase.Name, id: phrase.ID}, nil
}
