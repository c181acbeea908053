package umeng

import (
	"crypto/md5"
	"encoding/hex"
)

// Sign computes MD5(method + url + body + secret) as lowercase hex.
func Sign(method, url string, body []byte, appMasterSecret string) string {
	h := md5.New()
	h.Write([]byte(method))
	h.Write([]byte(url))
	h.Write(body)
	h.Write([]byte(appMasterSecret))
	return hex.EncodeToString(h.Sum(nil))
}
