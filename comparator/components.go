package comparator

import "github.com/criteo/openapi-comparator/parser"

func (c *comparison) compareComponents(old, new *parser.Components) {
	if old == nil && new == nil {
		return
	}
	if old == nil {
		old = &parser.Components{}
	}
	if new == nil {
		new = &parser.Components{}
	}
	c.trackReferences()

	c.pushProperty("components")
	defer c.pop()

	c.compareComponentSchemas(old.Schemas, new.Schemas)
	c.compareComponentParameters(old.Parameters, new.Parameters)
	c.compareComponentResponses(old.Responses, new.Responses)
}

// compareComponentSchemas compares schemas by name under no direction.
// Removing a schema nothing referenced is not reported.
func (c *comparison) compareComponentSchemas(old, new *parser.Map[parser.SchemaID]) {
	c.pushProperty("schemas")
	defer c.pop()

	for name, o := range old.All() {
		c.pushProperty(name)
		n, ok := new.Get(name)
		switch {
		case !ok && c.referenced[o]:
			c.log(RemovedDefinition, name)
		case ok:
			c.compareSchema(o, n, c.referenced[o])
		}
		c.pop()
	}
}

func (c *comparison) compareComponentParameters(old, new *parser.Map[*parser.Parameter]) {
	c.pushProperty("parameters")
	defer c.pop()

	for name, o := range old.All() {
		c.pushProperty(name)
		n, ok := new.Get(name)
		switch {
		case !ok:
			c.log(RemovedClientParameter, name)
		case o != nil && n != nil:
			c.compareParameter(o, n)
		}
		c.pop()
	}
}

func (c *comparison) compareComponentResponses(old, new *parser.Map[*parser.Response]) {
	c.pushProperty("responses")
	defer c.pop()

	for name, o := range old.All() {
		n, ok := new.Get(name)
		if !ok {
			c.log(RemovedDefinition, name)
			continue
		}
		c.pushProperty(name)
		c.compareResponse(o, n)
		c.pop()
	}
}
