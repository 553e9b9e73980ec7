package httpclient

import "net/url"

// DefaultBaseURL はオリジンがHTTP(S)でない場合に使うローカルAPIのURL。
const DefaultBaseURL = "http://127.0.0.1:8000"

// ResolveBaseURL はオリジンからAPIのベースURLを決定する。
// http/httpsのオリジンであれば "scheme://host" を返し、
// それ以外（file://、空文字列、解析不能など）はDefaultBaseURLを返す。
func ResolveBaseURL(origin string) string {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return DefaultBaseURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return DefaultBaseURL
	}
	return u.Scheme + "://" + u.Host
}
