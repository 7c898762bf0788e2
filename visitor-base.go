package treeval

// BaseVisitor is a [Visitor] that declines every shape with an
// [InvalidType] error. It is useful as an embedded base for your own
// Visitor implementation: set Expect to describe what your visitor wants
// and override the Visit methods for the shapes it accepts; every other
// shape then fails with a complete error message.
//
// Set Expect rather than overriding Expecting: the declining methods read
// the field directly, so an overridden Expecting on the outer type would
// not show up in their errors.
type BaseVisitor struct {
	// Expect names what the visitor wants, phrased to follow "expected",
	// e.g. "a duration". Left empty, declined shapes report
	// "expected nothing".
	Expect string
}

var _ Visitor = BaseVisitor{}

func (b BaseVisitor) Expecting() string {
	if b.Expect == "" {
		return "nothing"
	}
	return b.Expect
}

func (b BaseVisitor) VisitNull() (any, error) {
	return nil, NewInvalidType(UnexpectedNull(), b.Expecting())
}

func (b BaseVisitor) VisitBool(v bool) (any, error) {
	return nil, NewInvalidType(UnexpectedBool(v), b.Expecting())
}

func (b BaseVisitor) VisitInt(v int64) (any, error) {
	return nil, NewInvalidType(UnexpectedInt(v), b.Expecting())
}

func (b BaseVisitor) VisitUint(v uint64) (any, error) {
	return nil, NewInvalidType(UnexpectedUint(v), b.Expecting())
}

func (b BaseVisitor) VisitFloat(v float64) (any, error) {
	return nil, NewInvalidType(UnexpectedFloat(v), b.Expecting())
}

func (b BaseVisitor) VisitString(v string) (any, error) {
	return nil, NewInvalidType(UnexpectedString(v), b.Expecting())
}

func (b BaseVisitor) VisitNone() (any, error) {
	return nil, NewInvalidType(UnexpectedOption(), b.Expecting())
}

func (b BaseVisitor) VisitSome(Decoder) (any, error) {
	return nil, NewInvalidType(UnexpectedOption(), b.Expecting())
}

func (b BaseVisitor) VisitNewtype(Decoder) (any, error) {
	return nil, NewInvalidType(UnexpectedNewtype(), b.Expecting())
}

func (b BaseVisitor) VisitSeq(SeqAccess) (any, error) {
	return nil, NewInvalidType(UnexpectedSeq(), b.Expecting())
}

func (b BaseVisitor) VisitMap(MapAccess) (any, error) {
	return nil, NewInvalidType(UnexpectedMap(), b.Expecting())
}

func (b BaseVisitor) VisitEnum(EnumAccess) (any, error) {
	return nil, NewInvalidType(UnexpectedEnum(), b.Expecting())
}
