package registry

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/packdex/packdex/pkg/cache"
)

// placeholderToken marks unresolved build properties in descriptor fields
// (e.g. "${project.parent.name}"). Values containing it are unusable as-is.
const placeholderToken = "${"

// Descriptor is the parsed build descriptor (POM) of one artifact version.
// Only the fields needed for name and URL resolution are kept. JSON tags
// are for the durable cache; descriptors of published versions never
// change, so entries are stored without expiry.
type Descriptor struct {
	ArtifactID string `xml:"artifactId" json:"artifact_id"`
	Name       string `xml:"name" json:"name"`
	SCM        struct {
		URL string `xml:"url" json:"url"`
	} `xml:"scm" json:"scm"`
	Parent struct {
		GroupID    string `xml:"groupId" json:"group_id"`
		ArtifactID string `xml:"artifactId" json:"artifact_id"`
	} `xml:"parent" json:"parent"`
}

// Descriptors fetches build descriptors from the artifact repository and
// resolves display names and source URLs from them.
//
// All methods are safe for concurrent use by multiple goroutines.
type Descriptors struct {
	client    *Client
	repoBase  string // repository root, e.g. https://repo.example.org/releases
	guessBase string // fallback URL base, e.g. https://github.com/packdex
	logger    *log.Logger
}

// NewDescriptors creates a descriptor client. guessBase is the URL prefix
// used to construct fallback source URLs (<guessBase>/<artifactId>).
// A nil logger discards output.
func NewDescriptors(client *Client, repoBase, guessBase string, logger *log.Logger) *Descriptors {
	if logger == nil {
		logger = log.Default()
	}
	return &Descriptors{
		client:    client,
		repoBase:  strings.TrimSuffix(repoBase, "/"),
		guessBase: strings.TrimSuffix(guessBase, "/"),
		logger:    logger,
	}
}

// Fetch retrieves the descriptor for one artifact version, cached forever.
// Returns [ErrNotFound] for a 404 and an [ErrUpstream]-wrapped error for
// any other non-OK status or parse failure.
func (d *Descriptors) Fetch(ctx context.Context, groupID, artifactID, version string) (*Descriptor, error) {
	key := cache.DescriptorKey(groupID, artifactID, version)

	var desc Descriptor
	err := d.client.Cached(ctx, key, cache.TTLForever, &desc, func() error {
		return d.fetch(ctx, groupID, artifactID, version, &desc)
	})
	if err != nil {
		return nil, err
	}
	return &desc, nil
}

func (d *Descriptors) fetch(ctx context.Context, groupID, artifactID, version string, desc *Descriptor) error {
	groupPath := strings.ReplaceAll(groupID, ".", "/")
	url := fmt.Sprintf("%s/%s/%s/%s/%s-%s.pom",
		d.repoBase, groupPath, artifactID, version, artifactID, version)

	status, body, err := d.client.GetRaw(ctx, url)
	if err != nil {
		return err
	}
	switch {
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: descriptor %s:%s:%s", ErrNotFound, groupID, artifactID, version)
	case status != http.StatusOK:
		return fmt.Errorf("%w: status %d: %s", ErrUpstream, status, truncate(string(body), 200))
	}

	if err := xml.Unmarshal(body, desc); err != nil {
		return fmt.Errorf("%w: parse descriptor %s:%s:%s: %v", ErrUpstream, groupID, artifactID, version, err)
	}
	return nil
}

// ResolveNameAndURL resolves the display name and source URL for one
// artifact version from its descriptor.
//
// Name: the descriptor's declared name, unless it is empty or contains an
// unresolved property placeholder, in which case the artifactId is used.
//
// URL: the declared scm URL when it is concrete. A templated URL falls
// back to the guessed URL. A blank URL triggers a single parent-descriptor
// hop (the parent declared in the descriptor, same version) whose URL is
// used if concrete; the hop never recurses further.
//
// Resolution never fails: any descriptor fetch or parse problem degrades
// to (artifactId, guessed URL).
func (d *Descriptors) ResolveNameAndURL(ctx context.Context, groupID, artifactID, version string) (name, url string) {
	desc, err := d.Fetch(ctx, groupID, artifactID, version)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			d.logger.Debug("descriptor fetch failed",
				"artifact", groupID+":"+artifactID, "version", version, "err", err)
		}
		return artifactID, d.guessURL(artifactID)
	}
	return d.resolveName(desc, artifactID), d.resolveURL(ctx, desc, groupID, artifactID, version)
}

func (d *Descriptors) resolveName(desc *Descriptor, artifactID string) string {
	if desc.Name == "" || strings.Contains(desc.Name, placeholderToken) {
		return artifactID
	}
	return desc.Name
}

func (d *Descriptors) resolveURL(ctx context.Context, desc *Descriptor, groupID, artifactID, version string) string {
	scm := desc.SCM.URL
	switch {
	case scm != "" && !strings.Contains(scm, placeholderToken):
		return scm
	case scm != "":
		// Templated URL: no parent hop, guess directly.
		return d.guessURL(artifactID)
	}

	// Blank URL: one hop to the declared parent descriptor.
	if desc.Parent.ArtifactID == "" {
		return d.guessURL(artifactID)
	}
	parentGroup := desc.Parent.GroupID
	if parentGroup == "" {
		parentGroup = groupID
	}
	parent, err := d.Fetch(ctx, parentGroup, desc.Parent.ArtifactID, version)
	if err != nil || parent.SCM.URL == "" || strings.Contains(parent.SCM.URL, placeholderToken) {
		return d.guessURL(artifactID)
	}
	return parent.SCM.URL
}

func (d *Descriptors) guessURL(artifactID string) string {
	return d.guessBase + "/" + artifactID
}
