package livereload

import (
	"bytes"
	"fmt"

	"golang.org/x/net/html"
)

// ScriptFor returns the client snippet that connects to the reload endpoint
// and reloads the page on any message.
func ScriptFor(wsPath string) string {
	return fmt.Sprintf(`<script>
(function() {
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var sock = new WebSocket(proto + location.host + %q);
  sock.onmessage = function() { location.reload(); };
})();
</script>`, wsPath)
}

// InjectScript inserts snippet before the closing </body> tag of an HTML
// document. Documents without a body end tag get the snippet appended. The
// document is tokenized rather than string-searched so "</body>" inside
// scripts or attribute values does not confuse the injection point.
func InjectScript(doc []byte, snippet string) []byte {
	z := html.NewTokenizer(bytes.NewReader(doc))

	offset := -1
	consumed := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		raw := z.Raw()
		if tt == html.EndTagToken {
			if name, _ := z.TagName(); bytes.EqualFold(name, []byte("body")) {
				offset = consumed
				// Keep scanning; the last </body> wins for
				// malformed documents with several.
			}
		}
		consumed += len(raw)
	}

	if offset < 0 || offset > len(doc) {
		out := make([]byte, 0, len(doc)+len(snippet))
		out = append(out, doc...)
		return append(out, snippet...)
	}

	out := make([]byte, 0, len(doc)+len(snippet))
	out = append(out, doc[:offset]...)
	out = append(out, snippet...)
	return append(out, doc[offset:]...)
}
