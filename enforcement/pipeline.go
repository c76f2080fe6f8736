package enforcement

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var errStageFailed = errors.New("stage failed")

// pipeline applies a sequence of objects: in order on Encode, in reverse on Decode.
type pipeline struct {
	id     int64
	stages []Object
}

// Pipeline returns an object that chains the provided objects. Nil entries are skipped.
func Pipeline(id int64, objs ...Object) Object {
	p := &pipeline{id: id}

	for _, o := range objs {
		if o != nil {
			p.stages = append(p.stages, o)
		}
	}

	return p
}

func (p *pipeline) ObjectID() int64 { return p.id }

func (p *pipeline) Enforce(t *Ticket, r *Result) {
	if !Begin(t, r) {
		return
	}

	if !t.Operation().Valid() {
		r.Fail(errors.Wrapf(ErrInvalidOperation, "%v", int(t.Operation())))
		return
	}

	content := t.Buffer()

	var stage Result

	for i := range p.stages {
		o := p.stages[i]
		if t.Operation() == Decode {
			o = p.stages[len(p.stages)-1-i]
		}

		o.Enforce(NewTicket(t.Operation(), content, t.Tweak()), &stage)

		if stage.Status() != StatusSuccess {
			err := stage.Err()
			if err == nil {
				err = errStageFailed
			}

			r.Fail(errors.Wrapf(err, "stage %v", o.ObjectID()))
			return
		}

		if !stage.HasContent() {
			r.SetHasContent(false)
			return
		}

		content = stage.Content()
	}

	if len(p.stages) == 0 {
		content = append([]byte(nil), content...)
	}

	r.SetContent(content)
}

// Configure applies the configuration to every stage and returns the first error.
func (p *pipeline) Configure(key int, values []int64) error {
	for _, o := range p.stages {
		if err := o.Configure(key, values); err != nil {
			return errors.Wrapf(err, "stage %v", o.ObjectID())
		}
	}

	return nil
}

func (p *pipeline) CollectStatistics(_ *ObjectStatistics) error {
	return ErrStatisticsUnavailable
}

func (p *pipeline) String() string {
	var ids []string
	for _, o := range p.stages {
		ids = append(ids, strconv.FormatInt(o.ObjectID(), 10))
	}

	return "Pipeline enforcement object (" + strconv.FormatInt(p.id, 10) + ") [" + strings.Join(ids, ",") + "]."
}
