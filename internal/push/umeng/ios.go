package umeng

type IOSNotification struct {
	Notification
}

func NewIOSCast(cast Cast, appKey, appMasterSecret string) *IOSNotification {
	return &IOSNotification{
		Notification: newNotification(Ios, cast, appKey, appMasterSecret, routeIos),
	}
}

func routeIos(n *Notification, key string, value any) error {
	switch {
	case rootKeys.has(key):
		n.root[key] = value
	case iosApsKeys.has(key):
		n.object(keyPayload, keyAps)[key] = value
	case policyKeys.has(key):
		n.object(keyPolicy)[key] = value
	default:
		return keyError(key)
	}
	return nil
}

// SetCustomizedField sets a custom key/value beside aps in the payload.
func (i *IOSNotification) SetCustomizedField(key string, value string) error {
	if key == keyAps {
		return keyError(key)
	}
	i.object(keyPayload)[key] = value
	return nil
}

// SetAlert accepts a plain string or an object with title, subtitle and body.
func (i *IOSNotification) SetAlert(alert any) error {
	return i.SetPredefinedKeyValue("alert", alert)
}

func (i *IOSNotification) SetBadge(badge int) error {
	return i.SetPredefinedKeyValue("badge", badge)
}

func (i *IOSNotification) SetSound(sound string) error {
	return i.SetPredefinedKeyValue("sound", sound)
}

func (i *IOSNotification) SetContentAvailable(contentAvailable int) error {
	return i.SetPredefinedKeyValue("content-available", contentAvailable)
}
