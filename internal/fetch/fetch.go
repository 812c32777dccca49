// Package fetch loads the draw artifacts (winners document and entry
// snapshot) from HTTP(S) URLs or local files. No retries: a failed fetch
// is an input error for the caller to surface.
package fetch

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"drawaudit/internal/errors"
	"drawaudit/internal/version"
)

const (
	// httpTimeout bounds a single artifact download.
	httpTimeout = 30 * time.Second

	// winnersFile and snapshotFile are the published artifact names under
	// <base>/<period>/.
	winnersFile  = "winners.json"
	snapshotFile = "snapshot.csv"
)

// Sources names where each artifact comes from. Both fields are either
// URLs or local paths; they are also the labels recorded in reports and
// the run history.
type Sources struct {
	Winners  string
	Snapshot string
}

// Resolve builds the artifact sources from either an explicit pair of
// paths/URLs or the published layout <base>/<period>/winners.json and
// <base>/<period>/snapshot.csv.
func Resolve(winnersPath, snapshotPath, base, period string) (Sources, error) {
	switch {
	case winnersPath != "" && snapshotPath != "":
		return Sources{Winners: winnersPath, Snapshot: snapshotPath}, nil
	case winnersPath != "" || snapshotPath != "":
		return Sources{}, errors.New(errors.InputMalformed,
			"give both --winners and --snapshot, or neither", nil)
	case base == "":
		return Sources{}, errors.New(errors.InputMalformed,
			"no artifact sources: give --winners/--snapshot or --base with --period", nil)
	case period == "":
		return Sources{}, errors.New(errors.InputMalformed,
			"--base requires --period to locate the artifacts", nil)
	}

	root := strings.TrimRight(base, "/") + "/" + strings.Trim(period, "/")
	return Sources{
		Winners:  root + "/" + winnersFile,
		Snapshot: root + "/" + snapshotFile,
	}, nil
}

// IsURL reports whether the source is fetched over HTTP rather than read
// from disk.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Load fetches one artifact from a URL or reads it from a local file.
func Load(ctx context.Context, source string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if IsURL(source) {
		data, err = loadHTTP(ctx, source)
	} else {
		data, err = os.ReadFile(source)
		if err != nil {
			err = errors.New(errors.InputMalformed, "cannot read "+source, err)
		}
	}
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"source": source,
		"bytes":  len(data),
	}).Debug("artifact loaded")
	return data, nil
}

func loadHTTP(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, httpTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.New(errors.InputMalformed, "cannot build request for "+url, err)
	}
	req.Header.Set("User-Agent", "drawaudit/"+version.Version)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, errors.New(errors.InputMalformed, "cannot fetch "+url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf(errors.InputMalformed, "fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.New(errors.InputMalformed, "cannot read response from "+url, err)
	}
	return data, nil
}
