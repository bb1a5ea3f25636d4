package verify

import (
	"fmt"
	"path/filepath"

	"github.com/kingrea/gsd/internal/plans"
	"github.com/kingrea/gsd/internal/render"
)

// PhaseOptions names the phase in the generated report.
type PhaseOptions struct {
	PhaseName string
	Created   string
}

// Phase checks the must-haves of every plan in phaseDir. Artifact paths and
// key links resolve against root. Truths cannot be checked mechanically and
// are reported as skipped. Plans without must-haves contribute no checks.
func Phase(root, phaseDir string, opts PhaseOptions) (render.VerificationData, error) {
	found, err := plans.Discover(phaseDir)
	if err != nil {
		return render.VerificationData{}, fmt.Errorf("verify: %w", err)
	}
	data := render.VerificationData{
		Phase:     filepath.Base(phaseDir),
		PhaseName: opts.PhaseName,
		Created:   opts.Created,
	}
	for _, p := range found.Plans {
		check, err := checkPlan(root, p)
		if err != nil {
			return render.VerificationData{}, err
		}
		data.Plans = append(data.Plans, check)
	}
	return data, nil
}

func checkPlan(root string, p plans.Plan) (render.PlanVerification, error) {
	out := render.PlanVerification{PlanID: p.ID}
	mh := p.Meta.MustHaves
	if mh == nil {
		return out, nil
	}
	for _, truth := range mh.Truths {
		out.Truths = append(out.Truths, render.TruthCheck{Text: truth, Status: render.CheckSkip})
	}

	wiredTargets := map[string]bool{}
	linkedTargets := map[string]bool{}
	for _, link := range mh.KeyLinks {
		wired, err := KeyLinkWired(root, link)
		if err != nil {
			return out, err
		}
		linkedTargets[link.To] = true
		if wired {
			wiredTargets[link.To] = true
		}
		out.KeyLinks = append(out.KeyLinks, render.KeyLinkCheck{
			From:   link.From,
			To:     link.To,
			Via:    link.Via,
			Status: passFail(wired),
		})
	}

	for _, a := range mh.Artifacts {
		check := render.ArtifactCheck{Path: a.Path}
		path := filepath.Join(root, a.Path)
		check.Exists = ArtifactExists(path)
		// An artifact no key link points at has nothing to be wired to.
		check.Wired = !linkedTargets[a.Path] || wiredTargets[a.Path]
		if check.Exists {
			report, err := ArtifactSubstance(path, a)
			if err != nil {
				return out, err
			}
			check.Substance = string(report.Status)
			check.Detail = report.Detail()
		}
		check.Status = passFail(check.Exists && check.Substance == string(SubstanceSubstantive) && check.Wired)
		out.Artifacts = append(out.Artifacts, check)
	}
	return out, nil
}

func passFail(ok bool) render.CheckStatus {
	if ok {
		return render.CheckPass
	}
	return render.CheckFail
}
