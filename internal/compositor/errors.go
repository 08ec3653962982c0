package compositor

import "fmt"

func errUnknownWID(wid uint64) error {
	return fmt.Errorf("compositor: no live surface for wid %d", wid)
}

func errNotToplevel(wid uint64) error {
	return fmt.Errorf("compositor: wid %d is not a toplevel", wid)
}
