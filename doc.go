// Package captable is the valuation and capitalization adjustment engine of a
// startup equity-management application.
//
// It computes, from plain records handed over by the caller:
//   - Price per share and company valuation, reconciling competing sources
//     (valuation over fully diluted shares, consideration over quantity, and
//     an explicit override) and flagging divergence as data.
//   - SAFE and convertible note conversions, selecting the most favorable of
//     the discount, valuation cap and round prices.
//   - Vested, unvested and outstanding quantities of equity awards, and the
//     option pool counters as awards are granted, exercised and canceled.
//   - Stock splits across share ledger entries, awards and option plans,
//     leaving contractual dollar terms untouched.
//
// All money and share arithmetic is exact, on decimals, with money rounded to
// 4 and shares to 6 decimal places. The engine is stateless: functions read
// their arguments and return new records, so they are safe for concurrent
// use. Persisting results, and serializing concurrent writes to the same
// option plan or convertible, is the caller's job.
package captable
