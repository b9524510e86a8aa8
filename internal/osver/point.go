package osver

import "fmt"

// Point is a coordinate on the global timeline: a model paired with an OS
// release on that model.
type Point struct {
	Model   Model
	Version Version
}

// LatestPoint is the coordinate past every release of every known model.
func LatestPoint() Point {
	return Point{Model: Latest}
}

// ParsePoint builds a Point from a model name and an OS version string. The
// version may be empty only for the "latest" pseudo-model, whose rank alone
// decides every comparison.
func ParsePoint(model, version string) (Point, error) {
	m := Model(model)
	if !m.Known() {
		return Point{}, &UnknownModelError{Model: m}
	}
	if version == "" {
		if m == Latest {
			return Point{Model: m}, nil
		}
		return Point{}, fmt.Errorf("model %q needs an os version", model)
	}
	v, err := ParseVersion(version)
	if err != nil {
		return Point{}, err
	}
	return Point{Model: m, Version: v}, nil
}

// Compare orders points by model rank, then by OS version. It fails when
// either model is absent from the order table; such a point has no place on
// the timeline.
func (p Point) Compare(o Point) (int, error) {
	rp, ok := p.Model.Rank()
	if !ok {
		return 0, &UnknownModelError{Model: p.Model}
	}
	ro, ok := o.Model.Rank()
	if !ok {
		return 0, &UnknownModelError{Model: o.Model}
	}
	if rp != ro {
		return sign(rp - ro), nil
	}
	return p.Version.Compare(o.Version), nil
}

func (p Point) String() string {
	if p.Model == Latest {
		return string(Latest)
	}
	return fmt.Sprintf("%s %s", p.Model, p.Version)
}
