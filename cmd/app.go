package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Tiliavir/autoclock/internal/clockify"
	"github.com/Tiliavir/autoclock/internal/config"
	"github.com/Tiliavir/autoclock/internal/git"
	"github.com/Tiliavir/autoclock/internal/logger"
	"github.com/Tiliavir/autoclock/internal/schedule"
)

// app holds what a command needs, built from config, environment and flags.
type app struct {
	cfg    config.Config
	loc    *time.Location
	log    *logger.DefaultLogger
	git    *git.Provider
	client *clockify.Client
}

// loadConfig reads the config file and applies environment and flag
// overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, usage(err)
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	if workspaceID != "" {
		cfg.Clockify.WorkspaceID = workspaceID
	}
	if userID != "" {
		cfg.Clockify.UserID = userID
	}
	if repoPath != "" {
		cfg.Git.Path = repoPath
	}
	if verbose {
		cfg.Log.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newApp builds the app. withClient connects the Clockify client;
// withIdentity additionally requires the workspace and user to be known.
func newApp(ctx context.Context, withClient, withIdentity bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg: cfg,
		loc: loc,
		log: logger.New(logger.Options{File: cfg.LogFile(), Verbose: cfg.Log.Verbose}),
		git: git.NewProvider(git.Options{RepoPath: cfg.Git.Path, Author: cfg.Git.Author, Location: loc}),
	}
	if !withClient {
		return a, nil
	}

	a.client, err = clockify.NewClient(ctx, clockify.Options{
		BaseURL:     cfg.Clockify.APIURL,
		APIKey:      cfg.Clockify.APIKey,
		AccessToken: cfg.Clockify.AccessToken,
		WorkspaceID: cfg.Clockify.WorkspaceID,
		UserID:      cfg.Clockify.UserID,
		ProjectID:   cfg.Clockify.ProjectID,
		Timeout:     cfg.Clockify.Timeout,
	})
	if err != nil {
		a.close()
		return nil, err
	}
	if withIdentity {
		if err := a.client.CheckIdentity(ctx); err != nil {
			a.close()
			return nil, err
		}
	}
	return a, nil
}

func (a *app) scheduler(submit bool) *schedule.Scheduler {
	return schedule.New(a.git, a.client, a.log, a.schedulerOptions(submit))
}

func (a *app) schedulerOptions(submit bool) schedule.Options {
	opts := schedule.DefaultOptions()
	opts.StartHour = a.cfg.Workday.StartHour
	opts.WorkHours = a.cfg.Workday.WorkHours
	opts.Location = a.loc
	if len(a.cfg.Messages.TemporaryMarkers) > 0 {
		opts.Markers = a.cfg.Messages.TemporaryMarkers
	}
	opts.Submit = submit
	opts.RetryDelay = a.cfg.Timer.RetryDelay
	return opts
}

func (a *app) close() {
	if err := a.log.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: closing log file: %v\n", err)
	}
}
