package editor

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-sitegen/pkg/model"
)

// Option configures the Editor.
type Option func(*Editor)

// WithPromptDriver overrides the prompt driver used by the flows.
func WithPromptDriver(driver PromptDriver) Option {
	return func(e *Editor) {
		if driver != nil {
			e.driver = driver
		}
	}
}

// Editor runs prompt flows against a configuration snapshot.
type Editor struct {
	driver PromptDriver
}

// New constructs an Editor. Without WithPromptDriver it prompts on the
// terminal through survey.
func New(options ...Option) *Editor {
	e := &Editor{}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	if e.driver == nil {
		e.driver = NewSurveyDriver(nil)
	}
	return e
}

var logoTypes = []string{string(model.LogoTypeText), string(model.LogoTypeImage)}

// EditNavbar prompts for the navbar settings. Nav items are left to the page
// settings and are not edited here.
func (e *Editor) EditNavbar(ctx context.Context, cfg model.TemplateConfig) (model.Partial, error) {
	nav := model.NavbarConfig{Enabled: true, LogoType: model.LogoTypeText, NavItems: model.NavItemsFor(cfg.Pages)}
	if cfg.Navbar != nil {
		nav = *cfg.Navbar
	}

	enabled, err := e.driver.Confirm(ctx, ConfirmConfig{Message: "Show the navbar?", Default: nav.Enabled})
	if err != nil {
		return model.Partial{}, err
	}
	nav.Enabled = enabled

	name, err := e.ask(ctx, InputConfig{
		Message:   "Site name",
		Default:   nav.SiteName,
		Validator: required("site name"),
	})
	if err != nil {
		return model.Partial{}, err
	}
	nav.SiteName = name

	current := 0
	if nav.LogoType == model.LogoTypeImage {
		current = 1
	}
	idx, err := e.driver.Select(ctx, SelectConfig{Message: "Logo type", Options: logoTypes, DefaultIndex: current})
	if err != nil {
		return model.Partial{}, err
	}
	if idx < 0 || idx >= len(logoTypes) {
		return model.Partial{}, fmt.Errorf("editor: logo type selection %d out of range", idx)
	}
	nav.LogoType = model.LogoType(logoTypes[idx])

	if nav.LogoType == model.LogoTypeImage {
		logo, err := e.ask(ctx, InputConfig{
			Message:   "Logo image URL",
			Default:   nav.LogoImage,
			Validator: linkValidator,
		})
		if err != nil {
			return model.Partial{}, err
		}
		nav.LogoImage = logo
	}

	search, err := e.driver.Confirm(ctx, ConfirmConfig{Message: "Show search?", Default: nav.ShowSearch})
	if err != nil {
		return model.Partial{}, err
	}
	nav.ShowSearch = search
	nav.NavItems = append([]model.NavItem(nil), nav.NavItems...)

	return model.Partial{Navbar: &nav}, nil
}

// EditPages prompts for the enabled optional pages and, for each enabled
// page, whether it appears in the navbar. The returned partial carries the
// re-synchronised nav items.
func (e *Editor) EditPages(ctx context.Context, cfg model.TemplateConfig) (model.Partial, error) {
	pages := model.KnownPages()
	options := make([]string, len(pages))
	var defaults []int
	for i, page := range pages {
		options[i] = string(page)
		if cfg.Pages != nil && cfg.Pages.Enabled(page) {
			defaults = append(defaults, i)
		}
	}

	selected, err := e.driver.MultiSelect(ctx, SelectConfig{
		Message:  "Enabled pages",
		Options:  options,
		Defaults: defaults,
	})
	if err != nil {
		return model.Partial{}, err
	}
	enabled := make(map[model.PageID]bool, len(selected))
	for _, idx := range selected {
		if idx >= 0 && idx < len(pages) {
			enabled[pages[idx]] = true
		}
	}

	var out model.Partial
	working := cfg
	for _, page := range pages {
		p, err := model.SetPageEnabled(working, page, enabled[page])
		if err != nil {
			return model.Partial{}, err
		}
		working = working.Apply(p)
		out = out.Combine(p)
		if !enabled[page] {
			continue
		}

		showDefault := false
		if working.Pages != nil {
			showDefault = working.Pages.PageSettings[page].ShowInNav
		}
		show, err := e.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Show %s in the navbar?", page),
			Default: showDefault,
		})
		if err != nil {
			return model.Partial{}, err
		}
		p, err = model.SetPageShowInNav(working, page, show)
		if err != nil {
			return model.Partial{}, err
		}
		working = working.Apply(p)
		out = out.Combine(p)
	}
	return out, nil
}

var placementTargets = []string{"none", string(model.TargetHome), string(model.TargetLanding), string(model.TargetBlog)}

// NewCTA prompts for a CTA definition and an optional first placement. The
// returned definition carries its generated id.
func (e *Editor) NewCTA(ctx context.Context, cfg model.TemplateConfig) (model.Partial, model.CTADefinition, error) {
	var def model.CTADefinition
	var err error

	if def.Name, err = e.ask(ctx, InputConfig{Message: "Name", Validator: required("name")}); err != nil {
		return model.Partial{}, model.CTADefinition{}, err
	}
	if def.Text, err = e.ask(ctx, InputConfig{Message: "Button text", Default: "Check Price"}); err != nil {
		return model.Partial{}, model.CTADefinition{}, err
	}
	if def.AffiliateURL, err = e.ask(ctx, InputConfig{Message: "Affiliate URL", Validator: linkValidator}); err != nil {
		return model.Partial{}, model.CTADefinition{}, err
	}
	if def.AffiliateID, err = e.ask(ctx, InputConfig{Message: "Affiliate ID"}); err != nil {
		return model.Partial{}, model.CTADefinition{}, err
	}
	if def.TrackingParams, err = e.ask(ctx, InputConfig{Message: "Tracking params", Help: "query string appended to the affiliate URL, e.g. tag=site-20"}); err != nil {
		return model.Partial{}, model.CTADefinition{}, err
	}

	out, def, err := model.AddCTA(cfg, def)
	if err != nil {
		return model.Partial{}, model.CTADefinition{}, err
	}
	working := cfg.Apply(out)
	if err := e.driver.Info(ctx, fmt.Sprintf("Created CTA %q with id %s", def.Name, def.ID)); err != nil {
		return model.Partial{}, model.CTADefinition{}, err
	}

	idx, err := e.driver.Select(ctx, SelectConfig{Message: "Place it on", Options: placementTargets})
	if err != nil {
		return model.Partial{}, model.CTADefinition{}, err
	}
	if idx <= 0 || idx >= len(placementTargets) {
		return out, def, nil
	}
	target := model.PlacementTarget(placementTargets[idx])

	var placed model.Partial
	if target == model.TargetBlog {
		anchors := model.BlogAnchors()
		names := make([]string, len(anchors))
		for i, anchor := range anchors {
			names[i] = string(anchor)
		}
		pick, err := e.driver.Select(ctx, SelectConfig{Message: "Anchor", Options: names})
		if err != nil {
			return model.Partial{}, model.CTADefinition{}, err
		}
		if pick < 0 || pick >= len(anchors) {
			return model.Partial{}, model.CTADefinition{}, fmt.Errorf("editor: anchor selection %d out of range", pick)
		}
		placed, _, err = model.AddBlogPlacement(working, def.ID, anchors[pick])
		if err != nil {
			return model.Partial{}, model.CTADefinition{}, err
		}
	} else {
		raw, err := e.ask(ctx, InputConfig{Message: "Slot", Default: "0", Validator: slotValidator})
		if err != nil {
			return model.Partial{}, model.CTADefinition{}, err
		}
		slot, _ := strconv.Atoi(raw)
		placed, _, err = model.AddPlacement(working, target, def.ID, slot)
		if err != nil {
			return model.Partial{}, model.CTADefinition{}, err
		}
	}
	return out.Combine(placed), def, nil
}

func (e *Editor) ask(ctx context.Context, cfg InputConfig) (string, error) {
	value, err := e.driver.Input(ctx, cfg)
	if err != nil {
		return "", err
	}
	value = strings.TrimSpace(value)
	if cfg.Validator != nil {
		if err := cfg.Validator(value); err != nil {
			return "", err
		}
	}
	return value, nil
}

func required(label string) func(string) error {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}

var errBadLink = errors.New("enter an http(s) URL or a path starting with /")

func linkValidator(value string) error {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "/") {
		return nil
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errBadLink
	}
	return nil
}

func slotValidator(value string) error {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return errors.New("slot must be a non-negative integer")
	}
	return nil
}
