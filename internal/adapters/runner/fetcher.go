package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"unicode/utf8"

	"github.com/bnema/quotabar/internal/domain"
	"github.com/bnema/quotabar/internal/ports"
	"github.com/rs/zerolog"
)

// ScriptFetcher runs the external usage script through a runner executable
// and maps its combined output and exit status into a typed result. No
// timeout is imposed here; the script enforces its own upper bound and the
// caller stays cancellable through ctx.
type ScriptFetcher struct {
	runnerName string
	scriptPath string
	extraDirs  []string
	detector   ports.BrowserDetector
	clock      ports.Clock
	log        zerolog.Logger

	locate func(name string, extraDirs []string) (string, error)
	invoke func(ctx context.Context, runnerPath, scriptPath string) (string, string, error)
}

var _ ports.UsageFetcher = (*ScriptFetcher)(nil)

func NewScriptFetcher(runnerName, scriptPath string, extraDirs []string, detector ports.BrowserDetector, clock ports.Clock, log zerolog.Logger) *ScriptFetcher {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &ScriptFetcher{
		runnerName: runnerName,
		scriptPath: scriptPath,
		extraDirs:  extraDirs,
		detector:   detector,
		clock:      clock,
		log:        log,
		locate:     LocateRunner,
		invoke:     invokeScript,
	}
}

func (f *ScriptFetcher) Fetch(ctx context.Context) (domain.UsageSnapshot, error) {
	runnerPath, err := f.locate(f.runnerName, f.extraDirs)
	if err != nil {
		f.log.Debug().Err(err).Str("runner", f.runnerName).Msg("runner lookup failed")
		return domain.UsageSnapshot{}, &domain.FetchError{
			Kind:   domain.ErrKindRunnerNotFound,
			Detail: err.Error(),
		}
	}

	stdout, stderr, err := f.invoke(ctx, runnerPath, f.scriptPath)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Exit code alone is not diagnostic; stderr carries the story.
			classified := Classify(stderr, f.detector)
			f.log.Debug().Str("kind", string(classified.Kind)).Msg("fetch script failed")
			return domain.UsageSnapshot{}, classified
		}

		f.log.Debug().Err(err).Msg("fetch script could not be started")
		return domain.UsageSnapshot{}, &domain.FetchError{
			Kind:   domain.ErrKindExecutionFailure,
			Detail: err.Error(),
		}
	}

	if !utf8.ValidString(stdout) {
		return domain.UsageSnapshot{}, &domain.FetchError{
			Kind:   domain.ErrKindParseFailure,
			Detail: "script output is not valid UTF-8",
		}
	}

	snapshot, err := ParseSnapshot(stdout, f.clock.Now())
	if err != nil {
		return domain.UsageSnapshot{}, err
	}

	return snapshot, nil
}

// invokeScript runs `<runner> run python <script>` with the working
// directory set to the script's own directory so its relative collaborator
// lookups succeed.
func invokeScript(ctx context.Context, runnerPath, scriptPath string) (string, string, error) {
	cmd := exec.CommandContext(ctx, runnerPath, "run", "python", scriptPath)
	cmd.Dir = filepath.Dir(scriptPath)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
