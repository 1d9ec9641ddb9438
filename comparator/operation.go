package comparator

import (
	"reflect"

	"github.com/criteo/openapi-comparator/internal/httputil"
	"github.com/criteo/openapi-comparator/parser"
)

// LongRunningExtension is the operation extension flagging asynchronous
// operations.
const LongRunningExtension = "x-ms-long-running-operation"

// comparePathItem compares the path-level parameters once, then every verb.
func (c *comparison) comparePathItem(old, new *parser.PathItem) {
	if old == nil || new == nil {
		return
	}
	c.compareParameters(
		c.resolveParams(c.old, "old", old.Parameters, false),
		c.resolveParams(c.new, "new", new.Parameters, false),
	)
	c.compareOperations(old, new)
}

func (c *comparison) compareOperations(oldItem, newItem *parser.PathItem) {
	old, new := oldItem.Operations, newItem.Operations
	for _, verb := range httputil.Methods {
		o, inOld := old.Get(verb)
		if inOld && !new.Has(verb) {
			c.pushProperty(verb)
			c.log(RemovedOperation, operationID(o))
			c.pop()
		}
	}
	for _, verb := range httputil.Methods {
		if new.Has(verb) && !old.Has(verb) {
			c.pushProperty(verb)
			c.log(AddedOperation)
			c.pop()
		}
	}
	for _, verb := range httputil.Methods {
		o, inOld := old.Get(verb)
		n, inNew := new.Get(verb)
		if !inOld || !inNew || o == nil || n == nil {
			continue
		}
		c.pushProperty(verb)
		c.compareOperation(o, n, oldItem.Parameters, newItem.Parameters)
		c.pop()
	}
}

func operationID(op *parser.Operation) string {
	if op == nil {
		return ""
	}
	return op.OperationID
}

// compareOperation compares two operations of the same verb. oldShared and
// newShared are the parameters of the enclosing path items.
func (c *comparison) compareOperation(old, new *parser.Operation, oldShared, newShared []*parser.Parameter) {
	if old.OperationID != new.OperationID {
		c.pushProperty("operationId")
		c.log(ModifiedOperationID, old.OperationID, new.OperationID)
		c.pop()
	}

	c.compareParameters(
		c.effectiveParams(c.old, "old", old.Parameters, oldShared),
		c.effectiveParams(c.new, "new", new.Parameters, newShared),
	)

	c.compareResponses(old.Responses, new.Responses)

	c.pushProperty("requestBody")
	c.compareRequestBody(old.RequestBody, new.RequestBody)
	c.pop()

	c.compareLongRunning(old.Extensions, new.Extensions)
}

func (c *comparison) compareLongRunning(old, new map[string]any) {
	o, inOld := old[LongRunningExtension]
	n, inNew := new[LongRunningExtension]
	if inOld == inNew && reflect.DeepEqual(o, n) {
		return
	}
	c.pushProperty(LongRunningExtension)
	c.log(LongRunningOperationExtensionChanged)
	c.pop()
}
