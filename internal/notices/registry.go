package notices

import (
	"context"
	"io"
	"log"
	"sort"
	"sync"

	"github.com/a-h/templ"
)

// Phase is a point in the page render at which notice producers run.
type Phase string

// Screen-specific phases run first, then PhaseAll.
const (
	PhaseNetwork Phase = "network_admin_notices"
	PhaseUser    Phase = "user_admin_notices"
	PhaseAdmin   Phase = "admin_notices"
	PhaseAll     Phase = "all_admin_notices"
)

// DefaultPriority is the priority used by producers that don't care.
const DefaultPriority = 10

type registration struct {
	name     string
	priority int
	seq      int
	producer templ.Component
}

// Registry holds the notice producers for each phase.
type Registry struct {
	mu     sync.RWMutex
	phases map[Phase][]registration
	seq    int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{phases: make(map[Phase][]registration)}
}

// Add registers a producer. Lower priorities render first; equal
// priorities render in registration order.
func (r *Registry) Add(phase Phase, priority int, name string, producer templ.Component) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.phases[phase] = append(r.phases[phase], registration{
		name:     name,
		priority: priority,
		seq:      r.seq,
		producer: producer,
	})
}

// Len returns the number of producers registered for phase.
func (r *Registry) Len(phase Phase) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.phases[phase])
}

// Render returns a component running the producers of screen followed by
// those of PhaseAll. A failing producer is logged and skipped.
func (r *Registry) Render(screen Phase) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, reg := range r.ordered(screen) {
			if err := reg.producer.Render(ctx, w); err != nil {
				log.Printf("notice producer %s failed: %v", reg.name, err)
			}
		}
		return nil
	})
}

func (r *Registry) ordered(screen Phase) []registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []registration
	phases := []Phase{screen}
	if screen != PhaseAll {
		phases = append(phases, PhaseAll)
	}
	for _, p := range phases {
		regs := append([]registration(nil), r.phases[p]...)
		sort.SliceStable(regs, func(i, j int) bool {
			if regs[i].priority != regs[j].priority {
				return regs[i].priority < regs[j].priority
			}
			return regs[i].seq < regs[j].seq
		})
		out = append(out, regs...)
	}
	return out
}
