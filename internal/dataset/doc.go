// Package dataset provides the sample data searched by darkcti.
//
// The Store holds three immutable collections (sources, IOCs and threat
// actors) plus the list of sample quick queries. Accessors always return
// copies, so a caller can sort or trim what it receives without affecting
// other searches.
//
// The built-in collections can be replaced from the dataset section of a
// .darkcti file; see config.File.
package dataset
