package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goliatone/go-sitegen/pkg/model"
	"github.com/goliatone/go-sitegen/pkg/persistence"
	"github.com/goliatone/go-sitegen/pkg/persistence/memory"
	"github.com/goliatone/go-sitegen/pkg/store"
)

func newTestApp(t *testing.T) (*app, *bytes.Buffer) {
	t.Helper()
	t.Chdir(t.TempDir())
	var out bytes.Buffer
	return &app{out: &out, db: memory.New(), logger: zap.NewNop()}, &out
}

func run(t *testing.T, a *app, args ...string) error {
	t.Helper()
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetErr(&bytes.Buffer{})
	return root.ExecuteContext(context.Background())
}

// fixtureConfig has two sections and two home placements of the same CTA.
func fixtureConfig(t *testing.T) (model.TemplateConfig, []string) {
	t.Helper()
	cfg := model.Default()
	for _, sectionType := range []string{model.SectionHero, model.SectionNewsletter} {
		p, err := model.AddSection(cfg, sectionType, nil)
		require.NoError(t, err)
		cfg = cfg.Apply(p)
	}
	p, def, err := model.AddCTA(cfg, model.CTADefinition{
		Name:         "Deal",
		Text:         "Check Price",
		AffiliateURL: "https://shop.example/deal",
		AffiliateID:  "aff-1",
	})
	require.NoError(t, err)
	cfg = cfg.Apply(p)

	var ids []string
	for _, slot := range []int{0, 2} {
		p, placement, err := model.AddPlacement(cfg, model.TargetHome, def.ID, slot)
		require.NoError(t, err)
		cfg = cfg.Apply(p)
		ids = append(ids, placement.ID)
	}
	require.NoError(t, cfg.Validate())
	return cfg, ids
}

func writeFixture(t *testing.T, name string, cfg model.TemplateConfig) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, writeConfigFile(path, cfg))
	return path
}

func TestImportThenList(t *testing.T) {
	a, out := newTestApp(t)
	cfg, _ := fixtureConfig(t)
	path := writeFixture(t, "shop.json", cfg)

	require.NoError(t, run(t, a, "import", path, "--name", "Gadget Reviews"))
	assert.Contains(t, out.String(), `imported "Gadget Reviews" as `)

	out.Reset()
	require.NoError(t, run(t, a, "projects", "list"))
	assert.Contains(t, out.String(), "Gadget Reviews")
	assert.Contains(t, out.String(), persistence.StatusDraft)
}

func TestImportNameDefaultsToSiteName(t *testing.T) {
	a, out := newTestApp(t)
	cfg, _ := fixtureConfig(t)
	cfg.Navbar.SiteName = "Outdoor Gear"
	path := writeFixture(t, "gear.yaml", cfg)

	require.NoError(t, run(t, a, "import", path))
	assert.Contains(t, out.String(), `imported "Outdoor Gear"`)
}

func TestExportRoundTripsYAML(t *testing.T) {
	a, out := newTestApp(t)
	cfg, _ := fixtureConfig(t)
	path := writeFixture(t, "shop.json", cfg)
	require.NoError(t, run(t, a, "import", path))

	out.Reset()
	require.NoError(t, run(t, a, "export", "--format", "yaml"))
	got, err := model.Decode(out.Bytes())
	require.NoError(t, err)
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Fatalf("export mismatch (-want +got):\n%s", diff)
	}
}

func TestExportWithoutProjects(t *testing.T) {
	a, _ := newTestApp(t)
	err := run(t, a, "export")
	require.ErrorIs(t, err, store.ErrNoProjects)
}

func TestPlanFromFile(t *testing.T) {
	a, out := newTestApp(t)
	cfg, _ := fixtureConfig(t)
	path := writeFixture(t, "shop.json", cfg)

	require.NoError(t, run(t, a, "plan", "-f", path))

	var plan struct {
		Instructions []struct {
			Kind string `json:"kind"`
		} `json:"instructions"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &plan))
	var kinds []string
	for _, instruction := range plan.Instructions {
		kinds = append(kinds, instruction.Kind)
	}
	want := []string{"cta-slot", "section", "cta-slot", "section", "cta-slot"}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("instruction kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanRejectsUnknownPage(t *testing.T) {
	a, _ := newTestApp(t)
	cfg, _ := fixtureConfig(t)
	path := writeFixture(t, "shop.json", cfg)
	require.Error(t, run(t, a, "plan", "-f", path, "--page", "checkout"))
}

func TestPreviewWritesHTML(t *testing.T) {
	a, _ := newTestApp(t)
	cfg, _ := fixtureConfig(t)
	path := writeFixture(t, "shop.json", cfg)
	output := filepath.Join(t.TempDir(), "index.html")

	require.NoError(t, run(t, a, "preview", "-f", path, "-o", output,
		"--theme", "aurora", "--css-var", "color-primary=#123456"))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	html := string(data)
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, `data-theme="aurora"`)
	assert.Contains(t, html, "--color-primary: #123456;")
	assert.Contains(t, html, "https://shop.example/deal")
}

func TestPreviewWatchRequiresFile(t *testing.T) {
	a, _ := newTestApp(t)
	err := run(t, a, "preview", "--watch", "-o", "out.html")
	require.EqualError(t, err, "--watch requires --file")
}

func TestPreviewRerendersOnChange(t *testing.T) {
	a, _ := newTestApp(t)
	cfg, _ := fixtureConfig(t)
	path := writeFixture(t, "shop.json", cfg)
	output := filepath.Join(t.TempDir(), "index.html")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.store = store.New(a.db, store.WithLogger(a.logger))

	rendered := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- a.watch(ctx, path, func(ctx context.Context) error {
			req, err := a.pageRequest(ctx, targetFlags{file: path}, "home")
			if err != nil {
				return err
			}
			data, err := a.generate(ctx, req)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			select {
			case rendered <- struct{}{}:
			default:
			}
			return nil
		})
	}()

	cfg.Navbar.SiteName = "Renamed Site"
	require.Eventually(t, func() bool {
		if err := writeConfigFile(path, cfg); err != nil {
			return false
		}
		select {
		case <-rendered:
			return true
		default:
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Renamed Site")
}

func TestSectionMoveEditsFile(t *testing.T) {
	a, _ := newTestApp(t)
	cfg, _ := fixtureConfig(t)
	path := writeFixture(t, "shop.yaml", cfg)

	require.NoError(t, run(t, a, "section", "move", model.SectionNewsletter, "up", "-f", path))

	got, err := readConfigFile(path)
	require.NoError(t, err)
	var order []string
	for _, section := range model.SortedSections(got.Sections) {
		order = append(order, section.Type)
	}
	if diff := cmp.Diff([]string{model.SectionNewsletter, model.SectionHero}, order); diff != "" {
		t.Fatalf("section order mismatch (-want +got):\n%s", diff)
	}
}

func TestPlacementMoveEditsProject(t *testing.T) {
	a, _ := newTestApp(t)
	cfg, ids := fixtureConfig(t)
	path := writeFixture(t, "shop.json", cfg)
	require.NoError(t, run(t, a, "import", path))

	require.NoError(t, run(t, a, "placement", "move", "home", ids[1], "up"))

	doc, err := a.store.Load(context.Background(), a.store.ProjectID())
	require.NoError(t, err)
	var got []string
	for _, placement := range doc.HomeCTAPlacements {
		got = append(got, placement.ID)
	}
	if diff := cmp.Diff([]string{ids[1], ids[0]}, got); diff != "" {
		t.Fatalf("placement order mismatch (-want +got):\n%s", diff)
	}
}

func TestCTARemoveDropsPlacements(t *testing.T) {
	a, _ := newTestApp(t)
	cfg, _ := fixtureConfig(t)
	path := writeFixture(t, "shop.json", cfg)

	require.NoError(t, run(t, a, "cta", "remove", cfg.CTALibrary[0].ID, "-f", path))

	got, err := readConfigFile(path)
	require.NoError(t, err)
	assert.Empty(t, got.CTALibrary)
	assert.Empty(t, got.HomeCTAPlacements)
}

func TestPageEnableWithNav(t *testing.T) {
	a, _ := newTestApp(t)
	cfg, _ := fixtureConfig(t)
	path := writeFixture(t, "shop.json", cfg)

	require.NoError(t, run(t, a, "page", "enable", "blog", "--nav", "-f", path))

	got, err := readConfigFile(path)
	require.NoError(t, err)
	require.NotNil(t, got.Pages)
	assert.True(t, got.Pages.Enabled(model.PageBlog))
	var labels []string
	for _, item := range got.Navbar.NavItems {
		labels = append(labels, item.Label)
	}
	assert.Contains(t, labels, "Blog")
}

func TestPublishNeedsDeploymentTracking(t *testing.T) {
	a, _ := newTestApp(t)
	err := run(t, a, "projects", "publish", "some-id", "https://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not track deployments")
}

func TestProjectAndFileAreExclusive(t *testing.T) {
	a, _ := newTestApp(t)
	err := run(t, a, "export", "-p", "abc", "-f", "shop.json")
	require.Error(t, err)
}

func TestFilterSummaries(t *testing.T) {
	summaries := []persistence.Summary{
		{ID: "1", Name: "Kitchen Gadgets", Status: persistence.StatusDraft},
		{ID: "2", Name: "Camping Gear", Status: persistence.StatusPublished},
		{ID: "3", Name: "Kids Toys", Status: persistence.StatusDraft},
	}

	if diff := cmp.Diff(summaries, filterSummaries(summaries, "  ")); diff != "" {
		t.Fatalf("blank filter mismatch (-want +got):\n%s", diff)
	}

	got := filterSummaries(summaries, "camp")
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
}

func TestWriteConfigFileFormats(t *testing.T) {
	cfg, _ := fixtureConfig(t)
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "out", "site.json")
	require.NoError(t, writeConfigFile(jsonPath, cfg))
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	yamlPath := filepath.Join(dir, "site.yml")
	require.NoError(t, writeConfigFile(yamlPath, cfg))
	data, err = os.ReadFile(yamlPath)
	require.NoError(t, err)
	assert.False(t, json.Valid(data))

	got, err := readConfigFile(yamlPath)
	require.NoError(t, err)
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Fatalf("yaml round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadConfigFileMissing(t *testing.T) {
	_, err := readConfigFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
