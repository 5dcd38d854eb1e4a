package domain

import "fmt"

type LogisticsMode string

const (
	LogisticsPlatformDelivery LogisticsMode = "platform-delivery"
	LogisticsMeetingPoint     LogisticsMode = "meeting-point"
	LogisticsInPerson         LogisticsMode = "in-person"
)

// Logistics is a closed variant: the meeting point id is present exactly when
// the mode is LogisticsMeetingPoint. Build it with the constructors below.
type Logistics struct {
	mode           LogisticsMode
	meetingPointID string
}

func PlatformDelivery() Logistics {
	return Logistics{mode: LogisticsPlatformDelivery}
}

func InPerson() Logistics {
	return Logistics{mode: LogisticsInPerson}
}

func MeetingPoint(pointID string) Logistics {
	return Logistics{mode: LogisticsMeetingPoint, meetingPointID: pointID}
}

// ParseLogistics validates a mode selector and its optional point reference.
func ParseLogistics(mode string, pointID *string) (Logistics, error) {
	hasPoint := pointID != nil && *pointID != ""

	switch LogisticsMode(mode) {
	case LogisticsPlatformDelivery:
		if hasPoint {
			return Logistics{}, fmt.Errorf("deliveryPointId is only allowed for %s", LogisticsMeetingPoint)
		}
		return PlatformDelivery(), nil
	case LogisticsInPerson:
		if hasPoint {
			return Logistics{}, fmt.Errorf("deliveryPointId is only allowed for %s", LogisticsMeetingPoint)
		}
		return InPerson(), nil
	case LogisticsMeetingPoint:
		if !hasPoint {
			return Logistics{}, fmt.Errorf("deliveryPointId is required for %s", LogisticsMeetingPoint)
		}
		return MeetingPoint(*pointID), nil
	default:
		return Logistics{}, fmt.Errorf("unknown logistics mode %q", mode)
	}
}

func (l Logistics) Mode() LogisticsMode { return l.mode }

// MeetingPointID returns the referenced point and whether one is set.
func (l Logistics) MeetingPointID() (string, bool) {
	return l.meetingPointID, l.mode == LogisticsMeetingPoint
}

func (l Logistics) IsZero() bool { return l.mode == "" }

func (l Logistics) String() string {
	if id, ok := l.MeetingPointID(); ok {
		return fmt.Sprintf("%s(%s)", l.mode, id)
	}
	return string(l.mode)
}
