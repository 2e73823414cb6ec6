// Package handles maps managed values that have no native representation,
// such as Go callbacks passed as delegates, to opaque words native code can
// hold and hand back.
//
// A Table hands out small integer handles. Handle 0 is reserved and always
// invalid, so a zero word still reads as null on the native side:
//
//	table := handles.NewTable()
//	h := table.Insert("MARSHAL_TYPE_DELEGATE", callback)
//
//	v, ok := table.GetTyped(h, "MARSHAL_TYPE_DELEGATE")
//	table.Remove(h)
//
// Slots are recycled after Remove. Values are never collected implicitly;
// whoever inserts a value removes it, or calls Close to drop everything.
package handles
