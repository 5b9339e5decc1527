package conceptual

type CatID string

func (c CatID) String() string {
	return string(c)
}

func (c CatID) IsEmpty() bool {
	return c == ""
}

// InferenceID identifies one inference of one run.
// Timetable entries refer to POI inferences by this id.
type InferenceID string

func (i InferenceID) String() string {
	return string(i)
}

func (i InferenceID) IsEmpty() bool {
	return i == ""
}
