package comparator

import "github.com/criteo/openapi-comparator/parser"

// compareContent compares two media-type maps. Removed formats are breaking,
// added ones informational; common formats recurse into their schemas.
func (c *comparison) compareContent(old, new *parser.Map[*parser.MediaType]) {
	c.pushProperty("content")
	defer c.pop()

	for mediaType := range old.All() {
		if new.Has(mediaType) {
			continue
		}
		c.pushProperty(mediaType)
		if c.dir == dirRequest {
			c.log(RequestBodyFormatNoLongerSupported, mediaType)
		} else {
			c.log(ResponseBodyInOperationFormatNoLongerSupported, mediaType)
		}
		c.pop()
	}

	for mediaType := range new.All() {
		if old.Has(mediaType) {
			continue
		}
		c.pushProperty(mediaType)
		if c.dir == dirRequest {
			c.log(RequestBodyFormatNowSupported, mediaType)
		} else {
			c.log(ResponseBodyFormatNowSupported, mediaType)
		}
		c.pop()
	}

	for mediaType, o := range old.All() {
		n, ok := new.Get(mediaType)
		if !ok {
			continue
		}
		c.pushProperty(mediaType)
		c.pushProperty("schema")
		c.compareSchema(mediaSchema(o), mediaSchema(n), true)
		c.pop()
		c.pop()
	}
}

func mediaSchema(m *parser.MediaType) parser.SchemaID {
	if m == nil {
		return parser.NoSchema
	}
	return m.Schema
}
