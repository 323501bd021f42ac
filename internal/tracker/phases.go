package tracker

// Phase is an ordered stage of a template grouping document ids.
type Phase struct {
	ID                int    `yaml:"id"`
	Name              string `yaml:"name"`
	Description       string `yaml:"description"`
	EstimatedDuration string `yaml:"estimated_duration"`
	Documents         []int  `yaml:"documents"`
	Critical          bool   `yaml:"critical"`
	Warning           string `yaml:"warning"`
}

// PhaseState is the inferred completion of one phase.
type PhaseState struct {
	Phase    Phase
	Complete bool
	Started  bool
	Done     int
	Required int
}

// PhaseStates infers completion for each phase in order.
//
// A phase with documents is complete when its effectively required documents
// are all complete or n/a; an all-optional phase is complete when none of its
// documents is still incomplete. A document-less final phase completes when
// the package is finalized. Any other document-less phase completes once a
// later phase has started or completed.
func PhaseStates(p *Package, phases []Phase) []PhaseState {
	if p == nil || len(phases) == 0 {
		return nil
	}
	byID := make(map[int]Document, len(p.Documents))
	for _, d := range p.Documents {
		byID[d.ID] = d
	}

	states := make([]PhaseState, len(phases))
	for i, ph := range phases {
		st := PhaseState{Phase: ph}
		if len(ph.Documents) > 0 {
			anyRequired := false
			allTouched := true
			for _, id := range ph.Documents {
				d, ok := byID[id]
				if !ok {
					continue
				}
				if d.Status != DocIncomplete {
					st.Started = true
				} else {
					allTouched = false
				}
				if !IsRequired(d, p.Applicant) {
					continue
				}
				anyRequired = true
				st.Required++
				if d.Status.Done() {
					st.Done++
				}
			}
			if anyRequired {
				st.Complete = st.Done == st.Required
			} else {
				st.Complete = allTouched
			}
		}
		states[i] = st
	}

	last := len(phases) - 1
	if len(phases[last].Documents) == 0 {
		states[last].Complete = p.Status.Finalized()
		states[last].Started = states[last].Complete
	}
	// Walk backwards so a document-less phase sees later phases already resolved.
	for i := last - 1; i >= 0; i-- {
		if len(phases[i].Documents) > 0 {
			continue
		}
		for j := i + 1; j <= last; j++ {
			if states[j].Started || states[j].Complete {
				states[i].Complete = true
				states[i].Started = true
				break
			}
		}
	}
	return states
}

// InferCurrentPhase returns the id of the first incomplete phase, the last
// phase when all are complete, and 0 when there are no phases.
func InferCurrentPhase(p *Package, phases []Phase) int {
	states := PhaseStates(p, phases)
	if len(states) == 0 {
		return 0
	}
	for _, st := range states {
		if !st.Complete {
			return st.Phase.ID
		}
	}
	return states[len(states)-1].Phase.ID
}
