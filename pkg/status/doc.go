/*
Package status writes converted output and reports what the write did.

	            +-------------+
	            |   Writer    |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+-----+
	|   New    | | Modified | | Unchanged |
	+----------+ +----------+ +-----------+

🎯 Purpose:
- Compares new content with what is on disk by sha256
- Leaves identical files untouched
- Replaces files through a temp file and rename, so a reader never sees a
  half-written output

🔍 Example:

	w := status.NewWriter(0)
	st, err := w.Write(ctx, "sample.h_rust", []byte(text))
	if err != nil {
		return err
	}
	if st == status.StatusUnchanged {
		// nothing to do
	}
*/
package status
