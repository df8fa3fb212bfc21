// Copyright (C) 2026 htnc Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package chunker

// buzhashTable is the 256-entry rotate-XOR constant table the rolling
// hash indexes by byte value. Every entry is fixed and must never be
// regenerated at runtime: changing a single constant changes every cut
// decision downstream of it.
var buzhashTable = [256]uint32{
	0xf827b850, 0x9546b213, 0x5253483d, 0xee0a468f,
	0x906eb996, 0x6e9fdb01, 0xc5a6294f, 0x4315cf4f,
	0x2bd7e965, 0x6a5ff319, 0x82ab46cf, 0xa6d26c8b,
	0xa2ecdafe, 0x835b2c49, 0x6f72457f, 0xaa883968,
	0x508585a9, 0xeb2657f2, 0x5d00faa2, 0x4aca1639,
	0xbfd1f6e0, 0x2b33ef4e, 0x22f4a889, 0x6e26f41e,
	0x04526043, 0x6b140f8a, 0x628b062f, 0x2d5da4ff,
	0xe562f4cf, 0x21939c63, 0xa0e2b87e, 0x1b3f7ce3,
	0x9274c278, 0x7189bc82, 0x9c6e5f4a, 0xbed84db6,
	0xefd48f65, 0xe41f6f30, 0x2e0f2aa7, 0xe2489b3e,
	0x14e107c7, 0x3dcf22b1, 0x8b4605b0, 0xc3ae0960,
	0x2e6864ad, 0x74986143, 0x1ec39bb4, 0x276ed962,
	0x52dd9ced, 0x7f8e80c4, 0x7eb62a7d, 0x48be0fc0,
	0x29f78c06, 0x11e3468f, 0x2f11ee4a, 0x56959262,
	0x7613a6c7, 0xefb9b75a, 0xbb53da4f, 0x248b5b4c,
	0x28f8f64f, 0x4568abed, 0x48df6029, 0xc9c5bd1a,
	0xd4c23b4b, 0xc2236f5f, 0xd9cd7c3b, 0x9ad2b821,
	0x156291c2, 0x3a71dbb6, 0xb32ac924, 0x79393308,
	0x3d8c53f2, 0x42f32b0d, 0x88e8cb47, 0xc0d65392,
	0x39168be8, 0x7c20e905, 0xdacdda55, 0x7c021a32,
	0x7c48f0be, 0x009d5532, 0x321ca2fe, 0x69bda424,
	0x39e64c39, 0x5e454373, 0x993acf96, 0xeccf2322,
	0x286f6d1a, 0xc3827112, 0x10a27ab4, 0x138827e1,
	0x0ef2efbb, 0x7384fff8, 0x0cff34fa, 0x0b60c0bf,
	0x03cc7e5d, 0x255834e3, 0x4c0293fb, 0xc82b8b22,
	0x47bef776, 0x1c35f7e7, 0x3513d2af, 0xad85132a,
	0x0716b8b1, 0x08af7217, 0x54fa07c5, 0xac57d5bc,
	0x98dbd9ce, 0x4ea012ae, 0xbf7144c5, 0x832f84ba,
	0xe8a2211b, 0xae1fcaf2, 0x75ef794a, 0x5427abe6,
	0x14c41eec, 0xae320800, 0x6f26afa4, 0xad1a96ad,
	0x0d9aca92, 0x29957ae1, 0xbebbc228, 0x80cc00bc,
	0x29b7a5bb, 0x4657a5d5, 0x5d7b0f73, 0x8ccc7124,
	0x77f2ac85, 0x7d24d61b, 0xb79bec4a, 0x1077a372,
	0x7824384d, 0x6dda5ce4, 0x56c9254f, 0xe29b8a33,
	0xa6bdd8c4, 0x37303dcf, 0x58223374, 0x8a333d20,
	0xa58528e4, 0xf4735200, 0x88d5f5fc, 0xff8e38ce,
	0xdc075ef5, 0x88ba65e3, 0x56fd5006, 0x8bf0a818,
	0xf9cd2b31, 0xc9714beb, 0x29b1e96c, 0x45957511,
	0x1f1befa9, 0xffba8ac8, 0xf9f01575, 0xf3a8f975,
	0xec9f586b, 0x93445b1e, 0xfe0efdd1, 0x7c94baf8,
	0x94d840d2, 0xc5dbf04a, 0x10d34f7d, 0x4ac86ff9,
	0x32589c20, 0x34146eb2, 0xd72b0ebd, 0x140a0f02,
	0x224d6033, 0x4ce46b3a, 0x748785fe, 0x3d12d337,
	0xd1b1406d, 0xda0230d9, 0x6e48beab, 0x10a66b67,
	0x9d9ffd57, 0xe74e5a68, 0x16f064d5, 0x3676550d,
	0x6f13096e, 0x6cb1a216, 0x38d65bf2, 0x18543a82,
	0xde683210, 0x8eafbe84, 0x422c3b6a, 0xbd9211a2,
	0xf073c6d9, 0x73812f72, 0x3aa5dae7, 0x06f9ada8,
	0x4fa53d38, 0x2006beb2, 0xced65d92, 0x102e40c1,
	0x3008446e, 0x8a2e423e, 0x888add52, 0x3dc14a36,
	0x9f8fe1b0, 0x2eb8c14f, 0x00e8c8d1, 0x77b778a3,
	0x75ae2e98, 0x4ba6d992, 0x5afbcfdb, 0x9c499c49,
	0xe46bc45e, 0x20cfb921, 0x56e1bbe4, 0xc2f4cf93,
	0xd4562abd, 0x4c07a2c5, 0x33d42945, 0x3fac4821,
	0x57d7d2c7, 0xeeb0bb79, 0xf8d419ef, 0x042f5353,
	0x2d01ca74, 0x2495858b, 0x3f9538d4, 0x41764306,
	0x1f83e3d9, 0xd290930e, 0x0813a5de, 0xb47b615a,
	0xadccd066, 0x5720d67d, 0x0890d44d, 0x7f03ac02,
	0xb820ed21, 0x1ee09830, 0x929e1abd, 0x6d8b69db,
	0xcc14d1d7, 0x7e2fc014, 0xe518d369, 0x387caf10,
	0x945cac3a, 0x2fee6e8e, 0xe43e96a3, 0xaeb44de7,
	0x79ded2f3, 0x9f9113ff, 0x95e45f44, 0x5164acca,
	0xfab0a3a7, 0x0de8ca4a, 0x3641820f, 0x3f2791b2,
	0x9a4eee5a, 0xa30587cf, 0xcf2102f8, 0xf835c899,
}

// windowSize is the fixed buzhash window width.
const windowSize = 48

// rol32 rotates v left by n bits within a 32-bit word.
func rol32(v uint32, n uint) uint32 {
	return (v << n) | (v >> (32 - n))
}
