package comparator

import "github.com/criteo/openapi-comparator/parser"

func (c *comparison) compareRequestBody(old, new *parser.RequestBody) {
	defer c.withDirection(dirRequest)()

	switch {
	case old == nil && new == nil:
		return
	case old == nil:
		c.log(AddedRequestBody)
		return
	case new == nil:
		c.log(RemovedRequestBody)
		return
	}

	oldRef, newRef := old.Ref, new.Ref
	old, ok := c.old.ResolveRequestBody(old)
	if !ok {
		c.danglingRef("old", oldRef)
		return
	}
	new, ok = c.new.ResolveRequestBody(new)
	if !ok {
		c.danglingRef("new", newRef)
		return
	}

	c.compareRequiredStatus(old.Required, new.Required)
	c.compareContent(old.Content, new.Content)
}

// compareResponses compares the response maps of an operation by status code.
func (c *comparison) compareResponses(old, new *parser.Map[*parser.Response]) {
	if old == nil || new == nil {
		return
	}
	c.pushProperty("responses")
	defer c.pop()

	for code := range new.All() {
		if !old.Has(code) {
			c.pushProperty(code)
			c.log(AddingResponseCode, code)
			c.pop()
		}
	}
	for code := range old.All() {
		if !new.Has(code) {
			c.pushProperty(code)
			c.log(RemovedResponseCode, code)
			c.pop()
		}
	}
	for code, o := range old.All() {
		n, ok := new.Get(code)
		if !ok {
			continue
		}
		c.pushProperty(code)
		c.compareResponse(o, n)
		c.pop()
	}
}

func (c *comparison) compareResponse(old, new *parser.Response) {
	if old == nil || new == nil {
		return
	}
	if old.Ref != "" && new.Ref != "" && old.Ref != new.Ref {
		c.log(ReferenceRedirection)
	}
	defer c.withDirection(dirResponse)()

	oldRef, newRef := old.Ref, new.Ref
	old, ok := c.old.ResolveResponse(old)
	if !ok {
		c.danglingRef("old", oldRef)
		return
	}
	new, ok = c.new.ResolveResponse(new)
	if !ok {
		c.danglingRef("new", newRef)
		return
	}

	c.compareHeaders(old.Headers, new.Headers)
	c.compareContent(old.Content, new.Content)
}

func (c *comparison) compareHeaders(old, new *parser.Map[*parser.Header]) {
	c.pushProperty("headers")
	defer c.pop()

	for name, n := range new.All() {
		c.pushProperty(name)
		o, ok := old.Get(name)
		switch {
		case !ok && n != nil && n.Required && c.dir == dirRequest:
			c.log(AddingRequiredHeader, name)
		case !ok:
			c.log(AddingHeader, name)
		case o != nil && n != nil && o.Ref != "" && n.Ref != "" && o.Ref != n.Ref:
			c.log(ReferenceRedirection)
		}
		c.pop()
	}

	for name := range old.All() {
		if new.Has(name) {
			continue
		}
		c.pushProperty(name)
		if c.dir == dirResponse {
			c.log(RemovingHeader, name)
		} else {
			c.log(RemovingRequestHeader, name)
		}
		c.pop()
	}
}
