package collect

import (
	"net/url"
	"sort"
	"strings"
)

// trackingParamPrefixes lists query-parameter prefixes known to carry no
// identity information (campaign/referrer tracking), stripped during
// canonicalization so the same article reached via different campaign links
// collapses to one RawItem.
var trackingParamPrefixes = []string{"utm_", "ref", "fbclid", "gclid", "mc_cid", "mc_eid", "igshid"}

// canonicalizeURL lowercases the host, strips the fragment, drops tracking
// query parameters, and sorts the remaining ones so two URLs that differ
// only in parameter order or tracking noise produce the same canonical form.
func canonicalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return strings.TrimSpace(raw)
	}

	u.Fragment = ""
	u.Host = strings.ToLower(u.Host)
	u.Scheme = strings.ToLower(u.Scheme)
	if strings.HasSuffix(u.Path, "/") && u.Path != "/" {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}

	if u.RawQuery != "" {
		q := u.Query()
		for key := range q {
			lower := strings.ToLower(key)
			for _, prefix := range trackingParamPrefixes {
				if strings.HasPrefix(lower, prefix) {
					q.Del(key)
					break
				}
			}
		}
		keys := make([]string, 0, len(q))
		for k := range q {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		vals := url.Values{}
		for _, k := range keys {
			for _, v := range q[k] {
				vals.Add(k, v)
			}
		}
		u.RawQuery = vals.Encode()
	}

	return u.String()
}
