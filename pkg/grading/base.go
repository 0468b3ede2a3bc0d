package grading

// BaseGrader provides the metadata half of the Grader interface.
// Embed it and implement Validate and Scenarios to build an
// exercise grader.
type BaseGrader struct {
	info Info
}

// NewBaseGrader creates a BaseGrader, filling defaults for the
// optional metadata fields.
func NewBaseGrader(info Info) BaseGrader {
	if info.TimeEstimateMinutes == 0 {
		info.TimeEstimateMinutes = DefaultTimeEstimateMinutes
	}
	if info.RelatedTips == nil {
		info.RelatedTips = []int{}
	}
	if info.Prerequisites == nil {
		info.Prerequisites = []ID{}
	}
	if info.Hints == nil {
		info.Hints = []string{}
	}
	if info.Objectives == nil {
		info.Objectives = []string{}
	}
	if info.StarterFiles == nil {
		info.StarterFiles = map[string]string{}
	}
	return BaseGrader{info: info}
}

// Info returns the exercise metadata.
func (b *BaseGrader) Info() Info { return b.info }

// ID returns the exercise identifier.
func (b *BaseGrader) ID() ID { return b.info.ID }

// Describe returns the metadata as a plain map, suitable for
// listing exercises as JSON.
func (b *BaseGrader) Describe() map[string]any {
	return Describe(b.info)
}

// Describe renders metadata as a plain map with tag slugs in
// place of enumeration values.
func Describe(info Info) map[string]any {
	prereqs := make([]string, len(info.Prerequisites))
	for i, p := range info.Prerequisites {
		prereqs[i] = string(p)
	}
	return map[string]any{
		"id":                    string(info.ID),
		"name":                  info.Name,
		"category":              info.Category.String(),
		"difficulty":            info.Difficulty.String(),
		"validation_type":       info.Kind.String(),
		"description":           info.Description,
		"related_tips":          info.RelatedTips,
		"prerequisites":         prereqs,
		"time_estimate_minutes": info.TimeEstimateMinutes,
		"learning_objectives":   info.Objectives,
		"hints":                 info.Hints,
	}
}

// Ternary returns t if cond is true, f otherwise.
func Ternary(cond bool, t, f string) string {
	if cond {
		return t
	}
	return f
}
