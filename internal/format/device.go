package format

import "regexp"

var mobileUA = regexp.MustCompile(`(?i)Android|webOS|iPhone|iPad|iPod|BlackBerry|IEMobile|Opera Mini`)

// IsMobileDevice reports whether a User-Agent string looks like a phone or
// tablet browser.
func IsMobileDevice(userAgent string) bool {
	return mobileUA.MatchString(userAgent)
}
