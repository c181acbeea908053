package umeng

import "strconv"

type AndroidNotification struct {
	Notification
}

func NewAndroidCast(cast Cast, appKey, appMasterSecret string) *AndroidNotification {
	return &AndroidNotification{
		Notification: newNotification(Android, cast, appKey, appMasterSecret, routeAndroid),
	}
}

func routeAndroid(n *Notification, key string, value any) error {
	switch {
	case rootKeys.has(key):
		n.root[key] = value
	case androidPayloadKeys.has(key):
		n.object(keyPayload)[key] = value
	case androidBodyKeys.has(key):
		n.object(keyPayload, keyBody)[key] = value
	case policyKeys.has(key):
		n.object(keyPolicy)[key] = value
	default:
		return keyError(key)
	}
	return nil
}

// SetExtraField sets a custom key/value delivered to the app in payload.extra.
func (a *AndroidNotification) SetExtraField(key string, value string) error {
	a.object(keyPayload, keyExtra)[key] = value
	return nil
}

func (a *AndroidNotification) SetDisplayType(d DisplayType) error {
	return a.SetPredefinedKeyValue("display_type", string(d))
}

func (a *AndroidNotification) SetTicker(ticker string) error {
	return a.SetPredefinedKeyValue("ticker", ticker)
}

func (a *AndroidNotification) SetTitle(title string) error {
	return a.SetPredefinedKeyValue("title", title)
}

func (a *AndroidNotification) SetText(text string) error {
	return a.SetPredefinedKeyValue("text", text)
}

func (a *AndroidNotification) SetBuilderID(id int) error {
	return a.SetPredefinedKeyValue("builder_id", id)
}

func (a *AndroidNotification) SetIcon(icon string) error {
	return a.SetPredefinedKeyValue("icon", icon)
}

func (a *AndroidNotification) SetLargeIcon(largeIcon string) error {
	return a.SetPredefinedKeyValue("largeIcon", largeIcon)
}

func (a *AndroidNotification) SetImg(img string) error {
	return a.SetPredefinedKeyValue("img", img)
}

func (a *AndroidNotification) SetPlayVibrate(play bool) error {
	return a.SetPredefinedKeyValue("play_vibrate", strconv.FormatBool(play))
}

func (a *AndroidNotification) SetPlayLights(play bool) error {
	return a.SetPredefinedKeyValue("play_lights", strconv.FormatBool(play))
}

func (a *AndroidNotification) SetPlaySound(play bool) error {
	return a.SetPredefinedKeyValue("play_sound", strconv.FormatBool(play))
}

func (a *AndroidNotification) SetSound(sound string) error {
	return a.SetPredefinedKeyValue("sound", sound)
}

func (a *AndroidNotification) GoAppAfterOpen() error {
	return a.SetPredefinedKeyValue("after_open", string(GoApp))
}

func (a *AndroidNotification) GoURLAfterOpen(url string) error {
	if err := a.SetPredefinedKeyValue("after_open", string(GoURL)); err != nil {
		return err
	}
	return a.SetPredefinedKeyValue("url", url)
}

func (a *AndroidNotification) GoActivityAfterOpen(activity string) error {
	if err := a.SetPredefinedKeyValue("after_open", string(GoActivity)); err != nil {
		return err
	}
	return a.SetPredefinedKeyValue("activity", activity)
}

// GoCustomAfterOpen accepts either a string or a JSON object as custom content.
func (a *AndroidNotification) GoCustomAfterOpen(custom any) error {
	if err := a.SetPredefinedKeyValue("after_open", string(GoCustom)); err != nil {
		return err
	}
	return a.SetPredefinedKeyValue("custom", custom)
}

// SetMipush enables the Xiaomi vendor channel, opening activity on tap.
func (a *AndroidNotification) SetMipush(enabled bool, activity string) error {
	if err := a.SetPredefinedKeyValue("mipush", strconv.FormatBool(enabled)); err != nil {
		return err
	}
	if activity == "" {
		return nil
	}
	return a.SetPredefinedKeyValue("mi_activity", activity)
}
