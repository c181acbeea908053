package task

type Platform string

const (
	Android Platform = "android"
	Ios     Platform = "ios"
)

// Task is one cast taken from the queue. To is interpreted according to Cast:
// device tokens, a tag or filter, an alias list or the contents of a file.
type Task struct {
	ID      uint64
	Project string         `tnt:"0,require"`
	Type    Platform       `tnt:"1,require"`
	Cast    string         `tnt:"2,require"`
	To      string         `tnt:"3"`
	Payload map[string]any `tnt:"4"`
}

// Payload keys understood by the transports.
const (
	KeyTitle       = "title"
	KeyContent     = "content"
	KeySendTime    = "send_time"
	KeyURL         = "url"
	KeyDescription = "description"
	KeyAliasType   = "alias_type"
	KeyFields      = "fields"
	KeyExtra       = "extra"
)

func (t *Task) String(key string) string {
	if t.Payload == nil {
		return ""
	}
	s, _ := t.Payload[key].(string)
	return s
}

func (t *Task) Map(key string) map[string]any {
	if t.Payload == nil {
		return nil
	}
	m, _ := t.Payload[key].(map[string]any)
	return m
}
