package rewards

import "github.com/vytor/timestables/internal/models"

type PresentationState int

const (
	PresentationIdle PresentationState = iota
	PresentationShowing
	PresentationFinished
	PresentationReviewing
)

func (s PresentationState) String() string {
	switch s {
	case PresentationShowing:
		return "showing"
	case PresentationFinished:
		return "finished"
	case PresentationReviewing:
		return "reviewing"
	default:
		return "idle"
	}
}

func (s PresentationState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Commit is the persistence change tied to one dismissed reward.
type Commit struct {
	Badge       *models.UnlockedBadge
	Achievement *models.UnlockedAchievement
}

// Update converts the commit into a progress write.
func (c Commit) Update() models.ProgressUpdate {
	var u models.ProgressUpdate
	if c.Badge != nil {
		u.AddBadges = []models.UnlockedBadge{*c.Badge}
	}
	if c.Achievement != nil {
		u.UpsertAchievements = []models.UnlockedAchievement{*c.Achievement}
	}
	return u
}

// Presentation walks a reward queue one item at a time. Items before the
// current index have been committed, so every item commits exactly once.
// The zero value is idle.
type Presentation struct {
	result         RewardCheckResult
	index          int
	started        bool
	reviewDeferred bool
}

// NewPresentation starts presenting result. An empty queue is finished immediately.
func NewPresentation(result RewardCheckResult) Presentation {
	return Presentation{result: result, started: true}
}

func (p Presentation) State() PresentationState {
	switch {
	case !p.started:
		return PresentationIdle
	case p.index < len(p.result.Queue):
		return PresentationShowing
	case p.reviewDeferred:
		return PresentationReviewing
	default:
		return PresentationFinished
	}
}

// Current returns the reward on screen.
func (p Presentation) Current() (QueuedReward, bool) {
	if p.State() != PresentationShowing {
		return QueuedReward{}, false
	}
	return p.result.Queue[p.index], true
}

// Remaining counts the rewards not yet dismissed, including the current one.
func (p Presentation) Remaining() int {
	if !p.started {
		return 0
	}
	return len(p.result.Queue) - p.index
}

func (p Presentation) Result() RewardCheckResult {
	return p.result
}

func (p Presentation) ReviewDeferred() bool {
	return p.reviewDeferred
}

// Dismiss closes the current reward and returns its commit. Dismissing when
// nothing is showing is a no-op with a nil commit.
func (p Presentation) Dismiss() (Presentation, *Commit) {
	item, ok := p.Current()
	if !ok {
		return p, nil
	}
	commit := p.commitFor(item)
	p.index++
	return p, commit
}

// DeferReview records a review request made while rewards are showing;
// the presentation then ends in the reviewing state.
func (p Presentation) DeferReview() Presentation {
	if p.State() == PresentationShowing {
		p.reviewDeferred = true
	}
	return p
}

func (p Presentation) commitFor(item QueuedReward) *Commit {
	switch item.Type {
	case RewardLevelBadge:
		if p.result.NewBadge == nil {
			return nil
		}
		b := *p.result.NewBadge
		return &Commit{Badge: &b}
	case RewardAchievement:
		id := item.AchievementID
		if id == "" {
			def, ok := AchievementByTitle(item.Title)
			if !ok {
				return nil
			}
			id = def.ID
		}
		for _, a := range p.result.NewAchievements {
			if a.ID == id {
				rec := a
				return &Commit{Achievement: &rec}
			}
		}
	}
	return nil
}
