/*Package interval implements interval-union operations on genomic and
  protein coordinates.
  (Note the 'union'.  Overlapping and touching intervals are merged, not
  tracked separately; use an interval tree when that is not the desired
  behavior.)
  All coordinates are 0-based half-open [start, end).  It assumes every
  position fits in a PosType, which is currently defined as int32 since
  that's what genome annotation formats are limited to in practice.
*/
package interval
