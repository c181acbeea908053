package umeng

type Platform string

const (
	Android Platform = "android"
	Ios     Platform = "ios"
)

// Cast is the delivery-target mode of a notification, sent as the root "type" key.
type Cast string

const (
	Unicast        Cast = "unicast"
	Listcast       Cast = "listcast"
	Broadcast      Cast = "broadcast"
	Groupcast      Cast = "groupcast"
	Customizedcast Cast = "customizedcast"
	Filecast       Cast = "filecast"
)

func (c Cast) Valid() bool {
	switch c {
	case Unicast, Listcast, Broadcast, Groupcast, Customizedcast, Filecast:
		return true
	}
	return false
}

type DisplayType string

const (
	DisplayNotification DisplayType = "notification"
	DisplayMessage      DisplayType = "message"
)

type AfterOpen string

const (
	GoApp      AfterOpen = "go_app"
	GoURL      AfterOpen = "go_url"
	GoActivity AfterOpen = "go_activity"
	GoCustom   AfterOpen = "go_custom"
)

const (
	keyPayload = "payload"
	keyBody    = "body"
	keyAps     = "aps"
	keyPolicy  = "policy"
	keyExtra   = "extra"
)

type keySet map[string]struct{}

func newKeySet(keys ...string) keySet {
	s := make(keySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

func (s keySet) has(key string) bool {
	_, ok := s[key]
	return ok
}

var (
	rootKeys = newKeySet(
		"appkey", "timestamp", "type", "device_tokens", "alias", "alias_type",
		"file_id", "filter", "production_mode", "feedback", "description",
		"thirdparty_id", "mipush", "mi_activity",
	)

	policyKeys = newKeySet("start_time", "expire_time", "max_send_num", "out_biz_no")

	androidPayloadKeys = newKeySet("display_type")

	androidBodyKeys = newKeySet(
		"ticker", "title", "text", "builder_id", "icon", "largeIcon", "img",
		"play_vibrate", "play_lights", "play_sound", "sound", "after_open",
		"url", "activity", "custom",
	)

	iosApsKeys = newKeySet("alert", "badge", "sound", "content-available")

	containerKeys = newKeySet(keyPayload, keyBody, keyAps, keyPolicy, keyExtra)
)
